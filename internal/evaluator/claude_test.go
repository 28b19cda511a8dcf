package evaluator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
	"github.com/sells-group/florent/pkg/anthropic"
	anthropicmocks "github.com/sells-group/florent/pkg/anthropic/mocks"
)

func testFirm() *model.Firm {
	return &model.Firm{
		ID:          "acme",
		Name:        "Acme Infrastructure",
		Description: "Mid-size EPC contractor.",
	}
}

func textResponse(text string, in, out int64) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: in, OutputTokens: out},
	}
}

func TestClaude_Evaluate(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" && len(req.System) == 1
	})).Return(textResponse(`{"importance": 0.7, "influence": 0.4, "reasoning": "tight schedule"}`, 120, 30), nil)

	c := NewClaude(client, "claude-haiku-4-5-20251001", 1024)
	got, err := c.Evaluate(context.Background(), testFirm(), &graph.Node{ID: "n1", Name: "Pile driving"}, 2)
	require.NoError(t, err)

	assert.InDelta(t, 0.7, got.Importance, 0.0001)
	assert.InDelta(t, 0.4, got.Influence, 0.0001)
	assert.Equal(t, 120, got.InputTokens)
	assert.Equal(t, 30, got.OutputTokens)
}

func TestClaude_Discover(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`[{"name": "Customs clearance", "category": "transportation", "description": "port paperwork"}]`, 200, 50), nil)

	c := NewClaude(client, "claude-haiku-4-5-20251001", 1024)
	got, err := c.Discover(context.Background(), testFirm(), orchestrator.GapContext{Reason: "weak edge"})
	require.NoError(t, err)

	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "Customs clearance", got.Nodes[0].Name)
	assert.Equal(t, 200, got.InputTokens)
}

func TestStatic_Deterministic(t *testing.T) {
	s := NewStatic()
	node := &graph.Node{ID: "n1", Name: "Pile driving"}

	first, err := s.Evaluate(context.Background(), testFirm(), node, 0)
	require.NoError(t, err)
	second, err := s.Evaluate(context.Background(), testFirm(), node, 3)
	require.NoError(t, err)

	assert.Equal(t, first.Importance, second.Importance)
	assert.Equal(t, first.Influence, second.Influence)
	assert.GreaterOrEqual(t, first.Importance, 0.2)
	assert.LessOrEqual(t, first.Importance, 0.8)

	disc, err := s.Discover(context.Background(), testFirm(), orchestrator.GapContext{})
	require.NoError(t, err)
	assert.Empty(t, disc.Nodes)
}
