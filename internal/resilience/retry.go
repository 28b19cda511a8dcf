// Package resilience wraps the engine's two external call paths: retried
// LLM evaluation/discovery requests and the circuit-broken cross-encoder
// similarity service.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls DoVal's exponential backoff.
type RetryConfig struct {
	// MaxAttempts counts the first try. 1 means no retries.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry; each further retry
	// multiplies it by Multiplier, capped at MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// JitterFraction spreads each delay by up to this fraction in either
	// direction, so concurrent analyses do not retry in lockstep.
	JitterFraction float64

	// ShouldRetry gates which errors are worth another attempt. Nil means
	// only transient errors retry.
	ShouldRetry func(err error) bool

	// OnRetry runs before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// EvaluatorRetryConfig builds the retry policy for LLM evaluation and
// discovery calls: maxRetries attempts with backoffBase^attempt seconds
// between them. Every error is retryable here because evaluator failures are
// opaque; the caller substitutes default scores once retries are exhausted.
func EvaluatorRetryConfig(maxRetries int, backoffBase float64) RetryConfig {
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.25,
		ShouldRetry:    func(error) bool { return true },
	}
	if maxRetries > 0 {
		cfg.MaxAttempts = maxRetries
	}
	if backoffBase > 0 {
		cfg.Multiplier = backoffBase
	}
	return cfg
}

// DoVal runs fn until it succeeds, the attempts run out, the error is not
// retryable, or ctx is done. The last error is returned as-is; callers decide
// whether exhaustion is fatal.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsTransient
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		lastErr = err

		if ctx.Err() != nil || !shouldRetry(lastErr) {
			return zero, lastErr
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, lastErr)
		}

		timer := time.NewTimer(backoffDelay(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, lastErr
		case <-timer.C:
		}
	}
	return zero, lastErr
}

func backoffDelay(attempt int, cfg RetryConfig) time.Duration {
	delay := float64(cfg.InitialBackoff) * math.Pow(cfg.Multiplier, float64(attempt))
	if cfg.MaxBackoff > 0 && delay > float64(cfg.MaxBackoff) {
		delay = float64(cfg.MaxBackoff)
	}
	if cfg.JitterFraction > 0 {
		delay += (rand.Float64()*2 - 1) * delay * cfg.JitterFraction
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// RetryLogger returns an OnRetry callback that logs each attempt against the
// named service and operation.
func RetryLogger(service, operation string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying operation",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
