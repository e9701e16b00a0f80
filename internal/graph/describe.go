package graph

import (
	"fmt"
	"io"
)

// Describe writes a human-readable dump of the graph: every node with its
// connectors and defaults, every valid relationship, and whatever the build
// dropped. Backs the `relogic inspect` command.
func (g *Graph) Describe(w io.Writer) {
	fmt.Fprintf(w, "device %d: %d node(s), %d relationship(s)\n",
		g.DeviceID, len(g.Nodes), len(g.Relationships))

	for _, node := range g.Nodes {
		fmt.Fprintf(w, "  node %d  aId=%d kind=%q\n", node.ID, node.AvailableID, node.Kind)
		for _, in := range node.Inputs {
			fmt.Fprintf(w, "    input  %d  dt=%q default=%q\n", in.ID, in.DataType, in.Default.Text())
		}
		for _, out := range node.Outputs {
			if out.SourceID != 0 {
				fmt.Fprintf(w, "    output %d  dt=%q source=%d\n", out.ID, out.DataType, out.SourceID)
				continue
			}
			fmt.Fprintf(w, "    output %d  dt=%q\n", out.ID, out.DataType)
		}
	}

	for _, rel := range g.Relationships {
		producer, _ := g.OwnerOf(rel.OutputID)
		consumer, _ := g.OwnerOf(rel.InputID)
		fmt.Fprintf(w, "  relationship %d  output %d (node %d) -> input %d (node %d)\n",
			rel.ID, rel.OutputID, producer, rel.InputID, consumer)
	}

	for _, id := range g.DroppedRelationships {
		fmt.Fprintf(w, "  dropped relationship %d (unresolved endpoint)\n", id)
	}

	if cycles := g.Cycles(); len(cycles) > 0 {
		for _, cycle := range cycles {
			fmt.Fprintf(w, "  cycle: %v\n", cycle)
		}
	}
}
