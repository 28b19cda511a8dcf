package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/graph"
)

func n(id string) *graph.Node {
	return &graph.Node{ID: id, Name: id}
}

func TestNodeHeap_PopsHighestFirst(t *testing.T) {
	q := NewNodeHeap()
	q.Push(n("low"), 0.1)
	q.Push(n("high"), 0.9)
	q.Push(n("mid"), 0.5)

	var ids []string
	for {
		node, ok := q.Pop()
		if !ok {
			break
		}
		ids = append(ids, node.ID)
	}
	assert.Equal(t, []string{"high", "mid", "low"}, ids)
}

func TestNodeHeap_TiesBreakByInsertionOrder(t *testing.T) {
	q := NewNodeHeap()
	q.Push(n("first"), 0.5)
	q.Push(n("second"), 0.5)
	q.Push(n("third"), 0.5)

	a, _ := q.Pop()
	b, _ := q.Pop()
	c, _ := q.Pop()
	assert.Equal(t, "first", a.ID)
	assert.Equal(t, "second", b.ID)
	assert.Equal(t, "third", c.ID)
}

func TestNodeHeap_DuplicateEntriesAllowed(t *testing.T) {
	q := NewNodeHeap()
	node := n("dup")
	q.Push(node, 0.2)
	q.Push(node, 0.8)

	assert.Equal(t, 2, q.Len())

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Same(t, node, got)

	got, ok = q.Pop()
	require.True(t, ok)
	assert.Same(t, node, got)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestNodeHeap_EmptyPop(t *testing.T) {
	q := NewNodeHeap()
	assert.True(t, q.Empty())
	_, ok := q.Pop()
	assert.False(t, ok)
}
