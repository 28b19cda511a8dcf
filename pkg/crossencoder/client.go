// Package crossencoder talks to a text-embeddings-inference service and
// turns its vectors into firm/node affinity scores. The service is optional
// infrastructure: callers get a configured fallback score whenever it is
// down, and a circuit breaker keeps a dead endpoint from stalling graph
// construction.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/resilience"
	"github.com/sells-group/florent/internal/vector"
)

// Client scores text pair affinity in [0,1].
type Client interface {
	Similarity(ctx context.Context, textA, textB string) (float64, error)
	Healthy(ctx context.Context) bool
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithFallbackScore sets the score returned when the service is unavailable.
func WithFallbackScore(score float64) Option {
	return func(c *httpClient) {
		c.fallback = score
	}
}

// WithCircuitBreaker replaces the default breaker configuration.
func WithCircuitBreaker(cfg resilience.CircuitBreakerConfig) Option {
	return func(c *httpClient) {
		c.breaker = resilience.NewCircuitBreaker(cfg)
	}
}

type httpClient struct {
	endpoint string
	fallback float64
	http     *http.Client
	breaker  *resilience.CircuitBreaker
	log      *zap.Logger
}

// NewClient creates a cross-encoder client for the given endpoint.
func NewClient(endpoint string, opts ...Option) Client {
	c := &httpClient{
		endpoint: endpoint,
		fallback: 0.5,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		breaker: resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
		log:     zap.L().Named("crossencoder"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Healthy checks GET /health.
func (c *httpClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Similarity embeds both texts and returns their cosine similarity shifted
// into [0,1]. When the service fails (or its circuit is open) the configured
// fallback score is returned with a nil error, because a missing scorer must
// degrade weights, not abort graph construction.
func (c *httpClient) Similarity(ctx context.Context, textA, textB string) (float64, error) {
	score, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (float64, error) {
		vecA, err := c.embed(ctx, textA)
		if err != nil {
			return 0, err
		}
		vecB, err := c.embed(ctx, textB)
		if err != nil {
			return 0, err
		}
		sim, err := vector.CosineSimilarity(vecA, vecB)
		if err != nil {
			return 0, err
		}
		// Cosine is [-1,1]; weights need [0,1].
		return (sim + 1) / 2, nil
	})
	if err != nil {
		c.log.Warn("similarity unavailable, using fallback score",
			zap.Float64("fallback", c.fallback),
			zap.Error(err),
		)
		return c.fallback, nil
	}
	return score, nil
}

type vectorRequest struct {
	Text string `json:"text"`
}

type vectorResponse struct {
	Vector []float64 `json:"vector"`
}

func (c *httpClient) embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(vectorRequest{Text: text})
	if err != nil {
		return nil, eris.Wrap(err, "crossencoder: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/vectors", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "crossencoder: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "crossencoder: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "crossencoder: read response")
	}
	if resp.StatusCode != http.StatusOK {
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(
				eris.Errorf("crossencoder: status %d", resp.StatusCode), resp.StatusCode)
		}
		return nil, eris.Errorf("crossencoder: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var out vectorResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, eris.Wrap(err, "crossencoder: unmarshal response")
	}
	if len(out.Vector) == 0 {
		return nil, eris.New("crossencoder: empty vector in response")
	}
	return out.Vector, nil
}
