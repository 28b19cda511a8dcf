package resilience

import (
	"net/http"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestTransientError_WrapsCause(t *testing.T) {
	cause := eris.New("similarity service returned 503")
	te := NewTransientError(cause, http.StatusServiceUnavailable)

	assert.Equal(t, cause.Error(), te.Error())
	assert.Equal(t, http.StatusServiceUnavailable, te.StatusCode)
	assert.ErrorIs(t, te, cause)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", eris.New("bad node payload"), false},
		{"transient wrapper", NewTransientError(eris.New("overloaded"), 429), true},
		{"wrapped transient", eris.Wrap(NewTransientError(eris.New("overloaded"), 503), "scoring pair"), true},
		{"network timeout", timeoutErr{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 201, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}

func TestIsTransient_RetryGateIntegration(t *testing.T) {
	// The default DoVal gate and the HTTP classifier must agree on a 503:
	// the cross-encoder client wraps it, and the retry loop keeps going.
	err := NewTransientError(eris.New("upstream restarting"), 503)
	require.True(t, IsTransientHTTPStatus(err.StatusCode))
	require.True(t, IsTransient(err))
}
