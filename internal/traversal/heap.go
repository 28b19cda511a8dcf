// Package traversal provides the frontier containers for prioritized graph
// exploration: a max-heap keyed by priority for the main budget loop, and a
// LIFO stack for upstream blast-radius walks.
package traversal

import (
	"container/heap"

	"github.com/sells-group/florent/internal/graph"
)

// NodeHeap is a max-priority queue of (node, priority) pairs. It does not
// deduplicate: pushing the same node twice with different priorities is legal
// and expected, because the orchestrator re-prioritizes children as new
// information arrives. The caller owns the visited set and skips stale
// entries on pop, not on push. Ties break by insertion order so runs are
// reproducible.
type NodeHeap struct {
	h   entryHeap
	seq uint64
}

type entry struct {
	node     *graph.Node
	priority float64
	seq      uint64
}

type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// NewNodeHeap creates an empty priority queue.
func NewNodeHeap() *NodeHeap {
	return &NodeHeap{}
}

// Push adds a node with the given priority. O(log n).
func (q *NodeHeap) Push(n *graph.Node, priority float64) {
	q.seq++
	heap.Push(&q.h, entry{node: n, priority: priority, seq: q.seq})
}

// Pop removes and returns the highest-priority node. O(log n).
// The second return is false when the heap is empty.
func (q *NodeHeap) Pop() (*graph.Node, bool) {
	if len(q.h) == 0 {
		return nil, false
	}
	e := heap.Pop(&q.h).(entry)
	return e.node, true
}

// Len returns the number of entries, counting duplicates.
func (q *NodeHeap) Len() int { return len(q.h) }

// Empty reports whether the heap has no entries.
func (q *NodeHeap) Empty() bool { return len(q.h) == 0 }
