package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 1024, cfg.Anthropic.MaxTokens)
	assert.Equal(t, 3, cfg.Agent.MaxRetries)
	assert.InDelta(t, 2.0, cfg.Agent.BackoffBase, 0.001)
	assert.InDelta(t, 0.5, cfg.Agent.DefaultImportance, 0.001)
	assert.InDelta(t, 0.5, cfg.Agent.DefaultInfluence, 0.001)
	assert.InDelta(t, 0.3, cfg.Agent.DiscoveryTriggerThreshold, 0.001)
	assert.InDelta(t, 0.3, cfg.Graph.GapThreshold, 0.001)
	assert.Equal(t, 20, cfg.Graph.MaxDiscoveredNodes)
	assert.Equal(t, 3, cfg.Graph.MaxNodesPerGap)
	assert.InDelta(t, 0.9, cfg.Graph.DistanceDecayFactor, 0.001)
	assert.InDelta(t, 0.8, cfg.Graph.DefaultEdgeWeight, 0.001)
	assert.InDelta(t, 0.6, cfg.Matrix.InfluenceThreshold, 0.001)
	assert.InDelta(t, 0.6, cfg.Matrix.ImportanceThreshold, 0.001)
	assert.InDelta(t, 0.5, cfg.Bidding.CriticalDepMaxRatio, 0.001)
	assert.InDelta(t, 1.2, cfg.Propagation.Multiplier, 0.001)
	assert.Equal(t, 3, cfg.Chains.TopN)
	assert.Equal(t, 1000, cfg.Chains.MaxPaths)
	assert.Equal(t, 100, cfg.Pipeline.DefaultBudget)
	assert.False(t, cfg.CrossEncoder.Enabled)
	assert.InDelta(t, 0.5, cfg.CrossEncoder.FallbackScore, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
agent:
  max_retries: 5
matrix:
  influence_threshold: 0.7
propagation:
  multiplier: 1.0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Agent.MaxRetries)
	assert.InDelta(t, 0.7, cfg.Matrix.InfluenceThreshold, 0.001)
	assert.InDelta(t, 1.0, cfg.Propagation.Multiplier, 0.001)
	// Untouched sections keep defaults.
	assert.Equal(t, 1000, cfg.Chains.MaxPaths)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
matrix:
  influence_threshold: 1.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matrix.influence_threshold")
}

func TestValidate_RejectsZeroBudget(t *testing.T) {
	cfg := mustDefault(t)
	cfg.Pipeline.DefaultBudget = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsZeroRetries(t *testing.T) {
	cfg := mustDefault(t)
	cfg.Agent.MaxRetries = 0
	assert.Error(t, cfg.Validate())
}

func mustDefault(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestInitLogger(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())

	err = InitLogger(LogConfig{Level: "bogus", Format: "json"})
	assert.Error(t, err)
}
