// Package evaluator implements the injected evaluation and discovery
// capabilities on top of the Anthropic API, plus a deterministic offline
// variant for tests and dry runs.
package evaluator

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
	"github.com/sells-group/florent/pkg/anthropic"
)

// Claude scores nodes and discovers gap dependencies with Claude. It
// implements both orchestrator.Evaluator and orchestrator.Discoverer.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	log       *zap.Logger
}

// NewClaude creates a Claude-backed evaluator.
func NewClaude(client anthropic.Client, modelName string, maxTokens int) *Claude {
	return &Claude{
		client:    client,
		model:     modelName,
		maxTokens: int64(maxTokens),
		log:       zap.L().Named("evaluator"),
	}
}

// Evaluate asks the model for importance/influence scores for one node.
func (c *Claude) Evaluate(ctx context.Context, firm *model.Firm, node *graph.Node, distanceFromEntry int) (orchestrator.Evaluation, error) {
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(evaluationSystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: evaluationPrompt(firm, node, distanceFromEntry)},
		},
	})
	if err != nil {
		return orchestrator.Evaluation{}, err
	}

	eval, err := parseEvaluation(resp.Text())
	if err != nil {
		return orchestrator.Evaluation{}, err
	}
	eval.InputTokens = int(resp.Usage.InputTokens)
	eval.OutputTokens = int(resp.Usage.OutputTokens)

	c.log.Debug("node evaluated",
		zap.String("node_id", node.ID),
		zap.Float64("importance", eval.Importance),
		zap.Float64("influence", eval.Influence),
	)
	return eval, nil
}

// Discover asks the model for the hidden dependencies around a gap.
func (c *Claude) Discover(ctx context.Context, firm *model.Firm, gap orchestrator.GapContext) (orchestrator.Discovery, error) {
	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(discoverySystemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: discoveryPrompt(firm, gap)},
		},
	})
	if err != nil {
		return orchestrator.Discovery{}, err
	}

	specs, err := parseDiscovery(resp.Text())
	if err != nil {
		return orchestrator.Discovery{}, err
	}
	return orchestrator.Discovery{
		Nodes:        specs,
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}, nil
}
