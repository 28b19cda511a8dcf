// Package config centralizes every tunable parameter of the analysis engine
// in one immutable value object. Components receive the section they read at
// construction time; nothing consults ambient state after Load returns.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	CrossEncoder CrossEncoderConfig `yaml:"cross_encoder" mapstructure:"cross_encoder"`
	Agent        AgentConfig        `yaml:"agent" mapstructure:"agent"`
	Graph        GraphConfig        `yaml:"graph" mapstructure:"graph"`
	Matrix       MatrixConfig       `yaml:"matrix" mapstructure:"matrix"`
	Bidding      BiddingConfig      `yaml:"bidding" mapstructure:"bidding"`
	Propagation  PropagationConfig  `yaml:"propagation" mapstructure:"propagation"`
	Chains       ChainsConfig       `yaml:"chains" mapstructure:"chains"`
	Pipeline     PipelineConfig     `yaml:"pipeline" mapstructure:"pipeline"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings for the node evaluator.
type AnthropicConfig struct {
	Key       string  `yaml:"key" mapstructure:"key"`
	Model     string  `yaml:"model" mapstructure:"model"`
	MaxTokens int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RPS       float64 `yaml:"rps" mapstructure:"rps"`
}

// CrossEncoderConfig holds settings for the external similarity scorer.
type CrossEncoderConfig struct {
	Endpoint           string  `yaml:"endpoint" mapstructure:"endpoint"`
	Enabled            bool    `yaml:"enabled" mapstructure:"enabled"`
	HealthTimeoutSecs  int     `yaml:"health_timeout_secs" mapstructure:"health_timeout_secs"`
	RequestTimeoutSecs int     `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
	FallbackScore      float64 `yaml:"fallback_score" mapstructure:"fallback_score"`
}

// AgentConfig configures node evaluation and retry behavior.
type AgentConfig struct {
	MaxRetries                int     `yaml:"max_retries" mapstructure:"max_retries"`
	BackoffBase               float64 `yaml:"backoff_base" mapstructure:"backoff_base"`
	DefaultImportance         float64 `yaml:"default_importance" mapstructure:"default_importance"`
	DefaultInfluence          float64 `yaml:"default_influence" mapstructure:"default_influence"`
	DiscoveryTriggerThreshold float64 `yaml:"discovery_trigger_threshold" mapstructure:"discovery_trigger_threshold"`
	TokensPerEval             int     `yaml:"tokens_per_eval" mapstructure:"tokens_per_eval"`
	TokensPerDiscovery        int     `yaml:"tokens_per_discovery" mapstructure:"tokens_per_discovery"`
}

// GraphConfig configures firm-contextual graph construction and discovery.
type GraphConfig struct {
	GapThreshold            float64 `yaml:"gap_threshold" mapstructure:"gap_threshold"`
	MaxIterations           int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	MaxDiscoveredNodes      int     `yaml:"max_discovered_nodes" mapstructure:"max_discovered_nodes"`
	MaxNodesPerGap          int     `yaml:"max_nodes_per_gap" mapstructure:"max_nodes_per_gap"`
	MaxGapsPerIteration     int     `yaml:"max_gaps_per_iteration" mapstructure:"max_gaps_per_iteration"`
	DefaultEdgeWeight       float64 `yaml:"default_edge_weight" mapstructure:"default_edge_weight"`
	DistanceDecayFactor     float64 `yaml:"distance_decay_factor" mapstructure:"distance_decay_factor"`
	DiscoveredMinWeight     float64 `yaml:"discovered_min_weight" mapstructure:"discovered_min_weight"`
	DiscoveredDefaultWeight float64 `yaml:"discovered_default_weight" mapstructure:"discovered_default_weight"`
	BridgeGapWeight         float64 `yaml:"bridge_gap_weight" mapstructure:"bridge_gap_weight"`
	BridgeGapMinWeight      float64 `yaml:"bridge_gap_min_weight" mapstructure:"bridge_gap_min_weight"`
}

// MatrixConfig configures importance/influence quadrant classification.
// Comparisons are inclusive on the high side: a score equal to the threshold
// classifies as high.
type MatrixConfig struct {
	InfluenceThreshold  float64 `yaml:"influence_threshold" mapstructure:"influence_threshold"`
	ImportanceThreshold float64 `yaml:"importance_threshold" mapstructure:"importance_threshold"`
}

// BiddingConfig configures the bid decision logic.
type BiddingConfig struct {
	CriticalDepMaxRatio float64 `yaml:"critical_dep_max_ratio" mapstructure:"critical_dep_max_ratio"`
	MinBankability      float64 `yaml:"min_bankability" mapstructure:"min_bankability"`
	HighConfidence      float64 `yaml:"high_confidence" mapstructure:"high_confidence"`
	LowConfidence       float64 `yaml:"low_confidence" mapstructure:"low_confidence"`
	BankabilityHigh     float64 `yaml:"bankability_high" mapstructure:"bankability_high"`
	BankabilityMedium   float64 `yaml:"bankability_medium" mapstructure:"bankability_medium"`
}

// PropagationConfig configures cascading risk propagation.
type PropagationConfig struct {
	Multiplier float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// ChainsConfig configures critical chain detection.
type ChainsConfig struct {
	TopN                       int     `yaml:"top_n" mapstructure:"top_n"`
	MaxPaths                   int     `yaml:"max_paths" mapstructure:"max_paths"`
	HighRiskThreshold          float64 `yaml:"high_risk_threshold" mapstructure:"high_risk_threshold"`
	CriticalPriorityMultiplier float64 `yaml:"critical_priority_multiplier" mapstructure:"critical_priority_multiplier"`
}

// PipelineConfig configures end-to-end analysis runs.
type PipelineConfig struct {
	DefaultBudget int `yaml:"default_budget" mapstructure:"default_budget"`
}

// ServerConfig configures the REST server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. The config file is
// optional; every parameter has a default.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FLORENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("anthropic.rps", 5)

	v.SetDefault("cross_encoder.endpoint", "http://localhost:8081")
	v.SetDefault("cross_encoder.enabled", false)
	v.SetDefault("cross_encoder.health_timeout_secs", 2)
	v.SetDefault("cross_encoder.request_timeout_secs", 10)
	v.SetDefault("cross_encoder.fallback_score", 0.5)

	v.SetDefault("agent.max_retries", 3)
	v.SetDefault("agent.backoff_base", 2)
	v.SetDefault("agent.default_importance", 0.5)
	v.SetDefault("agent.default_influence", 0.5)
	v.SetDefault("agent.discovery_trigger_threshold", 0.3)
	v.SetDefault("agent.tokens_per_eval", 300)
	v.SetDefault("agent.tokens_per_discovery", 500)

	v.SetDefault("graph.gap_threshold", 0.3)
	v.SetDefault("graph.max_iterations", 10)
	v.SetDefault("graph.max_discovered_nodes", 20)
	v.SetDefault("graph.max_nodes_per_gap", 3)
	v.SetDefault("graph.max_gaps_per_iteration", 5)
	v.SetDefault("graph.default_edge_weight", 0.8)
	v.SetDefault("graph.distance_decay_factor", 0.9)
	v.SetDefault("graph.discovered_min_weight", 0.4)
	v.SetDefault("graph.discovered_default_weight", 0.6)
	v.SetDefault("graph.bridge_gap_weight", 0.7)
	v.SetDefault("graph.bridge_gap_min_weight", 0.5)

	v.SetDefault("matrix.influence_threshold", 0.6)
	v.SetDefault("matrix.importance_threshold", 0.6)

	v.SetDefault("bidding.critical_dep_max_ratio", 0.5)
	v.SetDefault("bidding.min_bankability", 0.7)
	v.SetDefault("bidding.high_confidence", 0.8)
	v.SetDefault("bidding.low_confidence", 0.5)
	v.SetDefault("bidding.bankability_high", 0.8)
	v.SetDefault("bidding.bankability_medium", 0.6)

	v.SetDefault("propagation.multiplier", 1.2)

	v.SetDefault("chains.top_n", 3)
	v.SetDefault("chains.max_paths", 1000)
	v.SetDefault("chains.high_risk_threshold", 0.7)
	v.SetDefault("chains.critical_priority_multiplier", 2.0)

	v.SetDefault("pipeline.default_budget", 100)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations that would break scoring invariants.
func (c *Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Agent.MaxRetries > 0, "agent.max_retries must be positive"},
		{c.Agent.BackoffBase >= 1, "agent.backoff_base must be >= 1"},
		{inUnit(c.Agent.DefaultImportance), "agent.default_importance must be in [0,1]"},
		{inUnit(c.Agent.DefaultInfluence), "agent.default_influence must be in [0,1]"},
		{inUnit(c.Agent.DiscoveryTriggerThreshold), "agent.discovery_trigger_threshold must be in [0,1]"},
		{inUnit(c.Graph.GapThreshold), "graph.gap_threshold must be in [0,1]"},
		{c.Graph.MaxIterations > 0, "graph.max_iterations must be positive"},
		{c.Graph.MaxDiscoveredNodes > 0, "graph.max_discovered_nodes must be positive"},
		{c.Graph.MaxNodesPerGap > 0, "graph.max_nodes_per_gap must be positive"},
		{c.Graph.DistanceDecayFactor > 0 && c.Graph.DistanceDecayFactor <= 1, "graph.distance_decay_factor must be in (0,1]"},
		{inUnit(c.Matrix.InfluenceThreshold), "matrix.influence_threshold must be in [0,1]"},
		{inUnit(c.Matrix.ImportanceThreshold), "matrix.importance_threshold must be in [0,1]"},
		{inUnit(c.Bidding.CriticalDepMaxRatio), "bidding.critical_dep_max_ratio must be in [0,1]"},
		{c.Propagation.Multiplier > 0, "propagation.multiplier must be positive"},
		{c.Chains.TopN > 0, "chains.top_n must be positive"},
		{c.Chains.MaxPaths > 0, "chains.max_paths must be positive"},
		{c.Pipeline.DefaultBudget > 0, "pipeline.default_budget must be positive"},
	}
	for _, check := range checks {
		if !check.ok {
			return eris.New("config: " + check.msg)
		}
	}
	return nil
}

func inUnit(f float64) bool { return f >= 0 && f <= 1 }

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
