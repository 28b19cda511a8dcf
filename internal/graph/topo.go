package graph

import "github.com/rotisserie/eris"

// TopologicalOrder returns the nodes linearized parents-before-children using
// Kahn's algorithm, breaking ties by insertion order so repeated runs over
// the same graph produce identical output. Fails with ErrCycle if any node
// cannot be scheduled, which indicates the acyclicity invariant was broken.
func (g *Graph) TopologicalOrder() ([]*Node, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		inDegree[id] = len(g.in[id])
	}

	var queue []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		sorted = append(sorted, g.nodes[cur])

		for _, e := range g.out[cur] {
			inDegree[e.Target]--
			if inDegree[e.Target] == 0 {
				queue = append(queue, e.Target)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, eris.Wrap(ErrCycle, "topological order incomplete")
	}
	return sorted, nil
}
