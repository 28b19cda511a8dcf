package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}

func TestCosineSimilarity_Errors(t *testing.T) {
	t.Parallel()
	_, err := CosineSimilarity([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = CosineSimilarity(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestEuclideanDistance(t *testing.T) {
	t.Parallel()
	d, err := EuclideanDistance([]float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 0.0001)
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	out := Normalize([]float64{3, 4})
	assert.InDelta(t, 0.6, out[0], 0.0001)
	assert.InDelta(t, 0.8, out[1], 0.0001)

	zero := Normalize([]float64{0, 0})
	assert.Equal(t, []float64{0, 0}, zero)
}

func TestWeightedAverage(t *testing.T) {
	t.Parallel()
	out, err := WeightedAverage([][]float64{{1, 0}, {0, 1}}, []float64{3, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, out[0], 0.0001)
	assert.InDelta(t, 0.25, out[1], 0.0001)

	_, err = WeightedAverage([][]float64{{1}}, []float64{0})
	assert.Error(t, err)
}
