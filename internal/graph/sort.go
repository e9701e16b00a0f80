package graph

// SortedNodeIDs derives the device's evaluation order with Kahn's algorithm.
//
// Every relationship contributes a producer -> consumer edge between the
// nodes owning its endpoints. Nodes that participate in no relationship at
// all never enter the in-degree map and so are not part of the order; they
// remain directly evaluable on demand because evaluation is graph-walk
// based, not order based.
//
// A cycle makes a complete order impossible: the result is then empty and
// the device is simply skipped for the pass (diagnostic, not fatal).
func (g *Graph) SortedNodeIDs() []int {
	adjacency := make(map[int][]int)
	inDegree := make(map[int]int)

	for _, rel := range g.Relationships {
		producer, ok := g.OwnerOf(rel.OutputID)
		if !ok {
			continue
		}
		consumer, ok := g.OwnerOf(rel.InputID)
		if !ok {
			continue
		}
		adjacency[producer] = append(adjacency[producer], consumer)
		inDegree[consumer]++
		if _, seen := inDegree[producer]; !seen {
			inDegree[producer] = 0
		}
	}

	// Seed with zero in-degree nodes in document order so the derived order
	// is deterministic across passes.
	var queue []int
	for _, node := range g.Nodes {
		if deg, touched := inDegree[node.ID]; touched && deg == 0 {
			queue = append(queue, node.ID)
		}
	}

	order := make([]int, 0, len(inDegree))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, dependent := range adjacency[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(inDegree) {
		return nil
	}
	return order
}
