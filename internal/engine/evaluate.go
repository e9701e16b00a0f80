package engine

import (
	"github.com/mwestra/relogic/internal/graph"
	"github.com/mwestra/relogic/internal/metrics"
	"github.com/mwestra/relogic/internal/ops"
	"github.com/mwestra/relogic/internal/wire"
)

// passContext is the memo for one evaluation pass. Outputs computed once
// are never recomputed within the pass, even when reached over multiple
// paths; final-node results live in their own map since a final node
// produces no outputs for downstream consumers.
type passContext struct {
	engine *Engine
	graph  *graph.Graph
	passID string

	outputs map[int]wire.Value // output connector id -> computed value
	visited map[int]bool       // node id -> evaluated (or in progress)
	finals  map[int]bool       // final node id -> coerced decision
}

func newPassContext(e *Engine, g *graph.Graph, passID string) *passContext {
	return &passContext{
		engine:  e,
		graph:   g,
		passID:  passID,
		outputs: make(map[int]wire.Value),
		visited: make(map[int]bool),
		finals:  make(map[int]bool),
	}
}

// evaluate computes the node's outputs, recursively evaluating producers
// first. Marking the node visited before descending doubles as the guard
// that keeps a cyclic graph reached on demand from recursing forever.
func (p *passContext) evaluate(nodeID int) {
	if p.visited[nodeID] {
		return
	}
	p.visited[nodeID] = true

	node, ok := p.graph.Node(nodeID)
	if !ok {
		return
	}
	metrics.NodeEvaluationsTotal.Inc()

	inputs := p.resolveInputs(node)

	op, known := ops.Lookup(node.AvailableID)
	if !known {
		// Unknown operator: the node produces no outputs. Silent pass, not
		// a fault.
		p.engine.log.Debug("unknown operator",
			"pass_id", p.passID,
			"device_id", p.graph.DeviceID,
			"node_id", node.ID,
			"available_id", node.AvailableID)
		return
	}

	switch op.Family {
	case ops.FamilySource:
		// Copy the external value table entry keyed by each output's source
		// tag. Node inputs are ignored entirely.
		for _, out := range node.Outputs {
			if v, ok := p.engine.values[out.SourceID]; ok {
				p.outputs[out.ID] = v
			}
		}

	case ops.FamilyFinal:
		var decision bool
		if len(inputs) > 0 {
			decision = inputs[0].Bool()
		}
		p.finals[node.ID] = decision

	case ops.FamilyBoolean:
		args := make([]bool, op.Arity)
		for i := 0; i < op.Arity && i < len(inputs); i++ {
			args[i] = inputs[i].Bool()
		}
		result := wire.Boolean(op.Bool(args))
		for _, out := range node.Outputs {
			p.outputs[out.ID] = result
		}

	case ops.FamilyNumeric:
		args := make([]float64, op.Arity)
		for i := 0; i < op.Arity && i < len(inputs); i++ {
			args[i] = inputs[i].Float()
		}
		result := wire.Number(op.Num(args))
		for _, out := range node.Outputs {
			p.outputs[out.ID] = result
		}
	}

	p.engine.log.Debug("node evaluated",
		"pass_id", p.passID,
		"device_id", p.graph.DeviceID,
		"node_id", node.ID,
		"operator", op.Name)
}

// resolveInputs produces the node's input values in connector order: the
// producing node's output where a relationship feeds the input, else the
// connector's own default.
func (p *passContext) resolveInputs(node *graph.Node) []wire.Value {
	values := make([]wire.Value, len(node.Inputs))
	for i, in := range node.Inputs {
		values[i] = in.Default

		rel, wired := p.graph.RelationshipForInput(in.ID)
		if !wired {
			continue
		}
		producerID, ok := p.graph.OwnerOf(rel.OutputID)
		if !ok {
			continue
		}
		p.evaluate(producerID)
		if v, computed := p.outputs[rel.OutputID]; computed {
			values[i] = v
		}
	}
	return values
}

// finalResult reports the decision recorded for a final node during this
// pass, if the node is one.
func (p *passContext) finalResult(nodeID int) (bool, bool) {
	v, ok := p.finals[nodeID]
	return v, ok
}

// decision reads the boolean result at a target node: a final node's
// recorded decision, or whether the first output rendered "true".
func (p *passContext) decision(node *graph.Node) bool {
	if v, ok := p.finals[node.ID]; ok {
		return v
	}
	if len(node.Outputs) == 0 {
		return false
	}
	v, ok := p.outputs[node.Outputs[0].ID]
	if !ok {
		return false
	}
	return v.Text() == "true"
}
