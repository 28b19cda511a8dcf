package traversal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/graph"
)

func TestNodeStack_LIFO(t *testing.T) {
	var s NodeStack
	assert.True(t, s.Empty())

	s.Push(&graph.Node{ID: "a"})
	s.Push(&graph.Node{ID: "b"})
	s.Push(&graph.Node{ID: "c"})
	assert.Equal(t, 3, s.Len())

	for _, want := range []string{"c", "b", "a"} {
		n, ok := s.Pop()
		require.True(t, ok)
		assert.Equal(t, want, n.ID)
	}

	_, ok := s.Pop()
	assert.False(t, ok)
	assert.True(t, s.Empty())
}
