package graph

import "sort"

// Cycles reports the strongly connected components of the relationship
// graph that form cycles, for diagnostics: the sorter only says "cyclic",
// this names the nodes involved.
//
// Each component is returned with its member node ids in ascending order,
// and components are ordered by their smallest member. Single nodes count
// only when they feed themselves. An acyclic graph yields nil.
func (g *Graph) Cycles() [][]int {
	adjacency := make(map[int][]int)
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
		if _, seen := adjacency[consumer]; !seen {
			adjacency[consumer] = nil
		}
	}

	sccs := tarjanSCC(adjacency)

	var cycles [][]int
	for _, scc := range sccs {
		if len(scc) > 1 || hasSelfLoop(scc[0], adjacency) {
			sort.Ints(scc)
			cycles = append(cycles, scc)
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func hasSelfLoop(node int, adjacency map[int][]int) bool {
	for _, next := range adjacency[node] {
		if next == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components with Tarjan's algorithm.
func tarjanSCC(adjacency map[int][]int) [][]int {
	var (
		index   int
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adjacency[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	// Visit in a stable order so repeated runs report identically.
	roots := make([]int, 0, len(adjacency))
	for node := range adjacency {
		roots = append(roots, node)
	}
	sort.Ints(roots)
	for _, node := range roots {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}
