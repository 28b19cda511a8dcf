package crossencoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/florent/internal/resilience"
)

func vectorServer(t *testing.T, vectors map[string][]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/vectors":
			var req vectorRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			vec, ok := vectors[req.Text]
			if !ok {
				http.Error(w, "unknown text", http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(vectorResponse{Vector: vec})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSimilarity(t *testing.T) {
	srv := vectorServer(t, map[string][]float64{
		"firm": {1, 0},
		"same": {1, 0},
		"orth": {0, 1},
	})
	defer srv.Close()

	c := NewClient(srv.URL)

	got, err := c.Similarity(context.Background(), "firm", "same")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 0.0001)

	// Orthogonal vectors: cosine 0 shifts to 0.5.
	got, err = c.Similarity(context.Background(), "firm", "orth")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 0.0001)
}

func TestSimilarity_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithFallbackScore(0.42))
	got, err := c.Similarity(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.42, got, 0.0001)
}

func TestSimilarity_CircuitOpensAfterFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
	}))

	for i := 0; i < 5; i++ {
		got, err := c.Similarity(context.Background(), "a", "b")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, got, 0.0001)
	}
	// After the breaker opened, requests stop reaching the server.
	assert.Equal(t, 2, calls)
}

func TestHealthy(t *testing.T) {
	srv := vectorServer(t, nil)
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.True(t, c.Healthy(context.Background()))

	srv.Close()
	assert.False(t, c.Healthy(context.Background()))
}
