package estimate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/config"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestAnalysisCost_BudgetCapsEvaluations(t *testing.T) {
	cfg := defaultConfig(t)

	est := AnalysisCost(cfg, 50, 10)
	assert.Equal(t, 10, est.Evaluations)

	// With budget headroom the graph plus growth cap drives the count.
	est = AnalysisCost(cfg, 10, 100)
	assert.Equal(t, 10+cfg.Graph.MaxDiscoveredNodes, est.Evaluations)
}

func TestAnalysisCost_Tokens(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.Agent.TokensPerEval = 300
	cfg.Agent.TokensPerDiscovery = 500
	cfg.Graph.MaxDiscoveredNodes = 20
	cfg.Graph.MaxNodesPerGap = 4

	est := AnalysisCost(cfg, 4, 100)
	// 24 evaluations at 300 tokens plus 5 discovery calls at 500.
	assert.Equal(t, 24*300+5*500, est.TotalTokens)
	assert.Greater(t, est.CostUSD, 0.0)
	assert.Equal(t, cfg.Anthropic.Model, est.Model)
}

func TestAnalysisCost_ZeroBudgetUsesDefault(t *testing.T) {
	cfg := defaultConfig(t)
	est := AnalysisCost(cfg, 4, 0)
	assert.Equal(t, 4+cfg.Graph.MaxDiscoveredNodes, est.Evaluations)
}
