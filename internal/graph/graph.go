// Package graph holds the per-device node graph: connectors, nodes, and the
// validated relationships that wire them, plus the dependency ordering the
// evaluator walks.
package graph

import (
	"log/slog"

	"github.com/mwestra/relogic/internal/wire"
)

// Input is a consuming connector on a node. Default is the value the
// connector resolves to when no relationship feeds it: a literal from the
// configuration, or wire.Absent.
type Input struct {
	ID       int
	DataType string
	Default  wire.Value
}

// Output is a producing connector on a node. SourceID tags the external
// value-table entry a source node copies from; other node kinds ignore it.
type Output struct {
	ID       int
	DataType string
	SourceID int
	ConfigID int
}

// Node is one operator instance. AvailableID selects its behavior from the
// operator registry; Kind is a descriptive label only. A node owns its
// connectors - connectors are never shared between nodes.
type Node struct {
	ID          int
	AvailableID int
	Kind        string
	Inputs      []Input
	Outputs     []Output
}

// Relationship is a validated edge from a producing output connector to a
// consuming input connector.
type Relationship struct {
	ID       int
	InputID  int
	OutputID int
	ConfigID int
}

// Graph is one device's complete logic graph. Built by Build; immutable
// afterwards (a new configuration replaces it wholesale).
type Graph struct {
	DeviceID      int
	Nodes         []Node
	Relationships []Relationship

	// DroppedRelationships lists the ids of relationships discarded at build
	// time because an endpoint did not resolve to a known connector.
	DroppedRelationships []int

	nodeIndex   map[int]int // node id -> index into Nodes
	ownerByConn map[int]int // connector id (input or output) -> node id
	relByInput  map[int]Relationship
}

// Build constructs a device graph from a decoded logic document.
//
// Input connectors start out holding their literal default, or the Absent
// sentinel when none was supplied. Relationships whose endpoints do not both
// resolve to connectors on this device are dropped, not fatal: they are
// recorded in DroppedRelationships and logged at Debug.
func Build(deviceID int, doc *wire.LogicDocument, log *slog.Logger) *Graph {
	if log == nil {
		log = slog.Default()
	}

	g := &Graph{
		DeviceID:    deviceID,
		nodeIndex:   make(map[int]int),
		ownerByConn: make(map[int]int),
		relByInput:  make(map[int]Relationship),
	}

	validInputs := make(map[int]bool)
	validOutputs := make(map[int]bool)

	for _, spec := range doc.Data.Nodes {
		node := Node{
			ID:          spec.ID,
			AvailableID: spec.AvailableID,
			Kind:        spec.Kind,
		}
		for _, in := range spec.Inputs {
			var def wire.Value = wire.Absent{}
			if in.Default != nil {
				def = wire.Text(*in.Default)
			}
			node.Inputs = append(node.Inputs, Input{ID: in.ID, DataType: in.DataType, Default: def})
			validInputs[in.ID] = true
			g.ownerByConn[in.ID] = node.ID
		}
		for _, out := range spec.Outputs {
			node.Outputs = append(node.Outputs, Output{
				ID:       out.ID,
				DataType: out.DataType,
				SourceID: out.DeviceID,
				ConfigID: out.ConfigID,
			})
			validOutputs[out.ID] = true
			g.ownerByConn[out.ID] = node.ID
		}
		g.nodeIndex[node.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, node)
	}

	for _, spec := range doc.Data.Relationships {
		if !validInputs[spec.InputID] || !validOutputs[spec.OutputID] {
			g.DroppedRelationships = append(g.DroppedRelationships, spec.ID)
			log.Debug("dropping relationship with unresolved endpoint",
				"device_id", deviceID,
				"relationship_id", spec.ID,
				"input_id", spec.InputID,
				"output_id", spec.OutputID)
			continue
		}
		rel := Relationship{
			ID:       spec.ID,
			InputID:  spec.InputID,
			OutputID: spec.OutputID,
			ConfigID: spec.ConfigID,
		}
		g.Relationships = append(g.Relationships, rel)
		if _, taken := g.relByInput[rel.InputID]; !taken {
			g.relByInput[rel.InputID] = rel
		}
	}

	return g
}

// Node returns the node with the given id.
func (g *Graph) Node(id int) (*Node, bool) {
	idx, ok := g.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[idx], true
}

// RelationshipForInput returns the relationship feeding the given input
// connector, if any. When a configuration wires the same input twice, the
// first valid relationship wins.
func (g *Graph) RelationshipForInput(inputID int) (Relationship, bool) {
	rel, ok := g.relByInput[inputID]
	return rel, ok
}

// OwnerOf returns the id of the node owning the given connector.
func (g *Graph) OwnerOf(connectorID int) (int, bool) {
	id, ok := g.ownerByConn[connectorID]
	return id, ok
}
