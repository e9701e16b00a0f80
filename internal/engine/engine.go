package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mwestra/relogic/internal/graph"
	"github.com/mwestra/relogic/internal/metrics"
	"github.com/mwestra/relogic/internal/wire"
)

// DefaultDebounceDuration is the cooldown applied when no option overrides
// it, matching the 10000 ms default of the deployed firmware.
const DefaultDebounceDuration = 10 * time.Second

// Engine owns every device's graph, the shared external value table, and
// the per-device debounce state.
//
// All exported methods lock the same mutex, so the engine is safe to share
// between the host's input path and its sweep ticker, at the cost of the
// stricter rule that the DecisionSink must not reenter the engine.
type Engine struct {
	mu       sync.Mutex
	graphs   map[int]*graph.Graph
	values   map[int]wire.Value // external source id -> latest reading
	pending  map[int]*pendingState
	debounce time.Duration

	sink     DecisionSink
	observer func(Decision)
	clock    Clock
	tokens   PassTokenGenerator
	log      *slog.Logger
}

// New creates an engine that reports decisions to sink.
func New(sink DecisionSink, opts ...Option) *Engine {
	e := &Engine{
		graphs:   make(map[int]*graph.Graph),
		values:   make(map[int]wire.Value),
		pending:  make(map[int]*pendingState),
		debounce: DefaultDebounceDuration,
		sink:     sink,
		clock:    SystemClock{},
		tokens:   UUIDv7Generator{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LoadConfig decodes a logic configuration and replaces the device's graph
// wholesale. On a decode failure the prior graph, if any, is left
// untouched.
func (e *Engine) LoadConfig(deviceID int, payload []byte) error {
	doc, err := wire.DecodeLogicDocument(payload)
	if err != nil {
		return fmt.Errorf("load config for device %d: %w", deviceID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	g := graph.Build(deviceID, doc, e.log)
	e.graphs[deviceID] = g

	if n := len(g.DroppedRelationships); n > 0 {
		metrics.RelationshipsDroppedTotal.Add(float64(n))
	}
	e.log.Debug("device graph replaced",
		"device_id", deviceID,
		"nodes", len(g.Nodes),
		"relationships", len(g.Relationships),
		"dropped", len(g.DroppedRelationships))
	return nil
}

// UpdateValues decodes a sensor reading batch, stores the normalized values
// in the external value table, and runs one evaluation pass over every
// device. Each final node reached feeds the debounce controller, which may
// invoke the sink before this call returns.
func (e *Engine) UpdateValues(payload []byte) error {
	upd, err := wire.DecodeValueUpdate(payload)
	if err != nil {
		return fmt.Errorf("update values: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	passID := e.tokens.Generate()
	for _, r := range upd.Readings {
		e.values[r.SourceID] = r.Value
		e.log.Debug("external value stored",
			"pass_id", passID,
			"source_id", r.SourceID,
			"value", r.Value.Text(),
			"kind", fmt.Sprintf("%T", r.Value))
	}
	metrics.ValueUpdatesTotal.Inc()

	for _, deviceID := range e.deviceIDsLocked() {
		e.evaluateDeviceLocked(passID, e.graphs[deviceID])
	}
	return nil
}

// EvaluateNode computes the boolean decision at one target node with a
// fresh evaluation context, without touching debounce state. For a final
// node the result is the coerced boolean of its sole input; for any other
// node, whether its first output renders as "true".
func (e *Engine) EvaluateNode(deviceID, nodeID int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.graphs[deviceID]
	if !ok {
		return false, fmt.Errorf("evaluate device %d: %w", deviceID, ErrUnknownDevice)
	}
	node, ok := g.Node(nodeID)
	if !ok {
		return false, fmt.Errorf("evaluate device %d node %d: %w", deviceID, nodeID, ErrUnknownNode)
	}

	pass := newPassContext(e, g, e.tokens.Generate())
	pass.evaluate(nodeID)
	return pass.decision(node), nil
}

// SetDebounceDuration changes the debounce cooldown. Affects only future
// debounce decisions; entries already pending keep their timestamps.
func (e *Engine) SetDebounceDuration(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debounce = d
	e.log.Debug("debounce duration set", "duration", d)
}

// Devices returns the ids of all configured devices in ascending order.
func (e *Engine) Devices() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deviceIDsLocked()
}

// ExternalValue returns the latest stored reading for an external source.
func (e *Engine) ExternalValue(sourceID int) (wire.Value, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.values[sourceID]
	return v, ok
}

// Describe dumps the device's graph in human-readable form.
func (e *Engine) Describe(deviceID int, w io.Writer) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.graphs[deviceID]
	if !ok {
		return fmt.Errorf("describe device %d: %w", deviceID, ErrUnknownDevice)
	}
	g.Describe(w)
	return nil
}

// deviceIDsLocked returns configured device ids sorted ascending so passes
// visit devices in a deterministic order. Caller holds e.mu.
func (e *Engine) deviceIDsLocked() []int {
	ids := make([]int, 0, len(e.graphs))
	for id := range e.graphs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// evaluateDeviceLocked runs one evaluation pass over a device: every node
// in dependency order, sharing one memo, with final nodes feeding the
// debounce controller. Cyclic devices are skipped for the pass. Caller
// holds e.mu.
func (e *Engine) evaluateDeviceLocked(passID string, g *graph.Graph) {
	order := g.SortedNodeIDs()
	if order == nil && len(g.Relationships) > 0 {
		metrics.CyclesDetectedTotal.Inc()
		e.log.Debug("skipping cyclic device graph",
			"pass_id", passID,
			"device_id", g.DeviceID,
			"cycles", fmt.Sprint(g.Cycles()))
		return
	}

	pass := newPassContext(e, g, passID)
	for _, nodeID := range order {
		pass.evaluate(nodeID)

		if decision, isFinal := pass.finalResult(nodeID); isFinal {
			e.applyDecisionLocked(passID, g.DeviceID, decision)
		}
	}
}
