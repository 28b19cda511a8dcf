// Package estimate predicts the token and dollar cost of an analysis before
// it runs, so operators can size budgets without burning API calls.
package estimate

import (
	"github.com/sells-group/florent/internal/config"
	"github.com/sells-group/florent/internal/cost"
)

// AnalysisEstimate is a worst-case cost projection for one analysis run.
type AnalysisEstimate struct {
	Evaluations int     `json:"evaluations"`
	Discoveries int     `json:"discoveries"`
	TotalTokens int     `json:"total_tokens"`
	CostUSD     float64 `json:"cost_usd"`
	Model       string  `json:"model"`
}

// AnalysisCost projects the upper bound for a run: every budgeted evaluation
// happens, and discovery is called as often as the growth caps allow. Actual
// runs come in under this because discovery only triggers on high-importance
// nodes and traversal can finish before the budget does.
func AnalysisCost(cfg *config.Config, nodeCount, budget int) AnalysisEstimate {
	if budget <= 0 {
		budget = cfg.Pipeline.DefaultBudget
	}

	evaluations := nodeCount + cfg.Graph.MaxDiscoveredNodes
	if evaluations > budget {
		evaluations = budget
	}

	discoveries := 0
	if cfg.Graph.MaxNodesPerGap > 0 {
		discoveries = cfg.Graph.MaxDiscoveredNodes / cfg.Graph.MaxNodesPerGap
	}

	tokens := evaluations*cfg.Agent.TokensPerEval + discoveries*cfg.Agent.TokensPerDiscovery
	calc := cost.NewCalculator(cost.DefaultRates())

	// Token split skews toward input: prompts carry the firm context while
	// responses are a short JSON verdict.
	inputTokens := tokens * 3 / 4
	outputTokens := tokens - inputTokens

	return AnalysisEstimate{
		Evaluations: evaluations,
		Discoveries: discoveries,
		TotalTokens: tokens,
		CostUSD:     calc.Claude(cfg.Anthropic.Model, inputTokens, outputTokens),
		Model:       cfg.Anthropic.Model,
	}
}
