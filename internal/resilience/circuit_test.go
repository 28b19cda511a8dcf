package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets the tests advance the breaker's view of time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(threshold int, reset time.Duration) (*CircuitBreaker, *fakeClock) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		ResetTimeout:     reset,
	})
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	cb.nowFunc = clock.Now
	return cb, clock
}

func failingCall(context.Context) (float64, error) {
	return 0, eris.New("cross-encoder unavailable")
}

func okCall(context.Context) (float64, error) {
	return 0.87, nil
}

func TestCircuitBreaker_StaysClosedBelowThreshold(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := ExecuteVal(ctx, cb, failingCall)
		require.Error(t, err)
	}
	assert.Equal(t, CircuitClosed, cb.State())

	// A success while closed clears the failure streak.
	score, err := ExecuteVal(ctx, cb, okCall)
	require.NoError(t, err)
	assert.Equal(t, 0.87, score)

	for i := 0; i < 2; i++ {
		_, err := ExecuteVal(ctx, cb, failingCall)
		require.Error(t, err)
	}
	assert.Equal(t, CircuitClosed, cb.State(), "streak restarted after the success")
}

func TestCircuitBreaker_OpensAtThresholdAndFailsFast(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := ExecuteVal(ctx, cb, failingCall)
		require.Error(t, err)
	}
	require.Equal(t, CircuitOpen, cb.State())

	called := false
	_, err := ExecuteVal(ctx, cb, func(context.Context) (float64, error) {
		called = true
		return 0, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open circuit must not invoke the call")
}

func TestCircuitBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	cb, clock := newTestBreaker(1, 30*time.Second)
	ctx := context.Background()

	_, err := ExecuteVal(ctx, cb, failingCall)
	require.Error(t, err)
	require.Equal(t, CircuitOpen, cb.State())

	clock.Advance(29 * time.Second)
	assert.Equal(t, CircuitOpen, cb.State())

	clock.Advance(2 * time.Second)
	assert.Equal(t, CircuitHalfOpen, cb.State())
}

func TestCircuitBreaker_TrialSuccessCloses(t *testing.T) {
	cb, clock := newTestBreaker(1, 30*time.Second)
	ctx := context.Background()

	_, err := ExecuteVal(ctx, cb, failingCall)
	require.Error(t, err)

	clock.Advance(31 * time.Second)
	score, err := ExecuteVal(ctx, cb, okCall)
	require.NoError(t, err)
	assert.Equal(t, 0.87, score)
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreaker_TrialFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(3, 30*time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := ExecuteVal(ctx, cb, failingCall)
		require.Error(t, err)
	}

	clock.Advance(31 * time.Second)
	_, err := ExecuteVal(ctx, cb, failingCall)
	require.Error(t, err)

	// One failed trial call is enough to reopen; the threshold does not
	// apply in half-open.
	assert.Equal(t, CircuitOpen, cb.State())
	_, err = ExecuteVal(ctx, cb, okCall)
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_ZeroConfigTakesDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})
	assert.Equal(t, 5, cb.cfg.FailureThreshold)
	assert.Equal(t, 30*time.Second, cb.cfg.ResetTimeout)
}

func TestCircuitState_String(t *testing.T) {
	assert.Equal(t, "closed", CircuitClosed.String())
	assert.Equal(t, "open", CircuitOpen.String())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
	assert.Equal(t, "unknown", CircuitState(99).String())
}
