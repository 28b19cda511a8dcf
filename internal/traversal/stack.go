package traversal

import "github.com/sells-group/florent/internal/graph"

// NodeStack is a plain LIFO stack used for depth-first upstream walks, such
// as re-evaluating the blast radius of a flagged node.
type NodeStack struct {
	items []*graph.Node
}

// Push adds a node to the top of the stack.
func (s *NodeStack) Push(n *graph.Node) {
	s.items = append(s.items, n)
}

// Pop removes and returns the top node. The second return is false when the
// stack is empty.
func (s *NodeStack) Pop() (*graph.Node, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	n := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return n, true
}

// Len returns the number of stacked nodes.
func (s *NodeStack) Len() int { return len(s.items) }

// Empty reports whether the stack has no nodes.
func (s *NodeStack) Empty() bool { return len(s.items) == 0 }
