package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/evaluator"
	"github.com/sells-group/florent/internal/orchestrator"
	"github.com/sells-group/florent/internal/pipeline"
	"github.com/sells-group/florent/pkg/anthropic"
	"github.com/sells-group/florent/pkg/crossencoder"
)

// initAnalysis wires the evaluator, discoverer, and similarity scorer into a
// Pipeline. Offline mode swaps Claude for the deterministic evaluator and
// disables discovery, so no API key or network access is needed.
func initAnalysis(ctx context.Context, offline bool) (*pipeline.Pipeline, error) {
	if offline {
		static := evaluator.NewStatic()
		return pipeline.New(cfg, static, nil, nil), nil
	}

	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic key not configured; set FLORENT_ANTHROPIC_KEY or use --offline")
	}

	client := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RPS)
	claude := evaluator.NewClaude(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)

	var similarity orchestrator.SimilarityScorer
	if cfg.CrossEncoder.Enabled {
		ce := crossencoder.NewClient(cfg.CrossEncoder.Endpoint,
			crossencoder.WithFallbackScore(cfg.CrossEncoder.FallbackScore),
			crossencoder.WithHTTPClient(&http.Client{
				Timeout: time.Duration(cfg.CrossEncoder.RequestTimeoutSecs) * time.Second,
			}),
		)

		healthCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.CrossEncoder.HealthTimeoutSecs)*time.Second)
		healthy := ce.Healthy(healthCtx)
		cancel()
		if healthy {
			similarity = ce
		} else {
			zap.L().Warn("cross-encoder unreachable, edges keep default weights",
				zap.String("endpoint", cfg.CrossEncoder.Endpoint),
			)
		}
	}

	return pipeline.New(cfg, claude, claude, similarity), nil
}
