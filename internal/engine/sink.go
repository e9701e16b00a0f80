package engine

import "time"

// DecisionSink receives committed actuation decisions. Set once at
// construction and invoked synchronously from whichever engine call commits
// the transition, so implementations must not call back into the engine.
type DecisionSink interface {
	OnDecision(deviceID int, value bool)
}

// DecisionFunc adapts a plain function to the DecisionSink interface.
type DecisionFunc func(deviceID int, value bool)

// OnDecision calls f(deviceID, value).
func (f DecisionFunc) OnDecision(deviceID int, value bool) { f(deviceID, value) }

// DecisionPath records which debounce path committed a decision.
type DecisionPath string

const (
	// PathImmediate marks decisions committed directly by a value update.
	PathImmediate DecisionPath = "immediate"
	// PathDeferred marks decisions applied by the maintenance sweep after
	// being deferred by oscillation.
	PathDeferred DecisionPath = "deferred"
)

// Decision is the enriched decision record handed to an observer, carrying
// what the DecisionSink interface deliberately leaves out: the commit path,
// the clock reading, and the pass token. The journal and the scenario
// harness consume these.
type Decision struct {
	DeviceID int
	Value    bool
	Path     DecisionPath
	At       time.Time
	PassID   string
}
