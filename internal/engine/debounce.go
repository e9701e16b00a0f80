package engine

import (
	"sort"

	"github.com/mwestra/relogic/internal/metrics"
)

// pendingState is one device's debounce entry. Absence of an entry means
// the device has never triggered (Idle).
//
// committed distinguishes the two ways a value ends up pending: committed
// entries were already reported through the sink and only linger to anchor
// the cooldown window; uncommitted entries were deferred by oscillation and
// are the maintenance sweep's to apply. The sweep never re-fires a
// committed entry.
type pendingState struct {
	value       bool
	committed   bool
	lastTrigger int64 // unix nanoseconds of the last application or oscillation update
}

// applyDecisionLocked runs the debounce state machine for one freshly
// evaluated decision. Caller holds e.mu.
//
// Transitions, in order:
//   - Pending with a different value (oscillation): overwrite the pending
//     value, restart the cooldown, no callback. A value that flips again
//     before being committed is noise.
//   - Idle, or pending the same value with the cooldown elapsed: commit
//     immediately and invoke the sink.
//   - Pending the same value inside the cooldown: drop.
func (e *Engine) applyDecisionLocked(passID string, deviceID int, value bool) {
	now := e.clock.Now()

	if p, ok := e.pending[deviceID]; ok && p.value != value {
		p.value = value
		p.committed = false
		p.lastTrigger = now.UnixNano()
		metrics.OscillationsTotal.Inc()
		e.log.Debug("oscillation absorbed",
			"pass_id", passID,
			"device_id", deviceID,
			"pending_value", value)
		return
	}

	p, ok := e.pending[deviceID]
	if !ok || now.UnixNano()-p.lastTrigger >= int64(e.debounce) {
		e.pending[deviceID] = &pendingState{
			value:       value,
			committed:   true,
			lastTrigger: now.UnixNano(),
		}
		metrics.DecisionsTotal.WithLabelValues(metrics.PathImmediate).Inc()
		e.log.Debug("decision committed",
			"pass_id", passID,
			"device_id", deviceID,
			"value", value,
			"path", PathImmediate)
		e.emitLocked(Decision{
			DeviceID: deviceID,
			Value:    value,
			Path:     PathImmediate,
			At:       now,
			PassID:   passID,
		})
		return
	}

	metrics.SuppressedTotal.Inc()
	e.log.Debug("decision suppressed inside cooldown",
		"pass_id", passID,
		"device_id", deviceID,
		"value", value)
}

// ProcessPending is the host-driven maintenance sweep: every pending entry
// whose cooldown has elapsed is cleared back to Idle, and entries that were
// deferred by oscillation (never committed) are applied through the sink on
// the way out.
func (e *Engine) ProcessPending() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	passID := e.tokens.Generate()

	for _, deviceID := range e.pendingIDsLocked() {
		p := e.pending[deviceID]
		if now.UnixNano()-p.lastTrigger < int64(e.debounce) {
			continue
		}
		delete(e.pending, deviceID)

		if p.committed {
			continue
		}
		metrics.DecisionsTotal.WithLabelValues(metrics.PathDeferred).Inc()
		e.log.Debug("deferred decision applied",
			"pass_id", passID,
			"device_id", deviceID,
			"value", p.value,
			"path", PathDeferred)
		e.emitLocked(Decision{
			DeviceID: deviceID,
			Value:    p.value,
			Path:     PathDeferred,
			At:       now,
			PassID:   passID,
		})
	}
}

// emitLocked reports a committed decision to the sink and, when set, the
// observer. Caller holds e.mu; both callbacks run inline.
func (e *Engine) emitLocked(d Decision) {
	if e.sink != nil {
		e.sink.OnDecision(d.DeviceID, d.Value)
	}
	if e.observer != nil {
		e.observer(d)
	}
}

// pendingIDsLocked returns pending device ids sorted ascending. Caller
// holds e.mu.
func (e *Engine) pendingIDsLocked() []int {
	ids := make([]int, 0, len(e.pending))
	for id := range e.pending {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
