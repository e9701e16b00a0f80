// Package metrics exposes Prometheus counters for engine activity.
//
// Counters are advisory only: nothing in evaluation or debouncing reads
// them. They are registered on the default registerer and served by
// `relogic run --metrics-addr`.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision paths used as the "path" label on DecisionsTotal.
const (
	PathImmediate = "immediate"
	PathDeferred  = "deferred"
)

var (
	// ValueUpdatesTotal counts value-update payloads applied.
	ValueUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_value_updates_total",
		Help: "Total number of value update payloads applied",
	})

	// NodeEvaluationsTotal counts individual node evaluations.
	NodeEvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_node_evaluations_total",
		Help: "Total number of node evaluations",
	})

	// DecisionsTotal counts committed decision callbacks by path.
	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relogic_decisions_total",
		Help: "Total number of committed decision callbacks",
	}, []string{"path"})

	// OscillationsTotal counts pending values overwritten before commit.
	OscillationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_oscillations_total",
		Help: "Total number of oscillating state changes absorbed",
	})

	// SuppressedTotal counts decisions dropped inside the cooldown window.
	SuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_suppressed_total",
		Help: "Total number of decisions suppressed by the debounce cooldown",
	})

	// CyclesDetectedTotal counts evaluation passes skipped on cyclic graphs.
	CyclesDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_cycles_detected_total",
		Help: "Total number of device passes skipped due to graph cycles",
	})

	// RelationshipsDroppedTotal counts relationships discarded at build time.
	RelationshipsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relogic_relationships_dropped_total",
		Help: "Total number of relationships dropped during graph validation",
	})
)
