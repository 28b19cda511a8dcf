// Package vector implements the embedding math used for firm/node affinity:
// cosine similarity between embedding vectors and the helpers around it.
package vector

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrDimensionMismatch is returned when two vectors have different lengths.
var ErrDimensionMismatch = eris.New("vector: dimension mismatch")

// ErrEmptyVector is returned when an operation receives a zero-length vector.
var ErrEmptyVector = eris.New("vector: empty vector")

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Zero-magnitude vectors yield 0 rather than an error.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}

	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// EuclideanDistance returns the L2 distance between a and b.
func EuclideanDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float64) []float64 {
	var mag float64
	for _, x := range v {
		mag += x * x
	}
	mag = math.Sqrt(mag)

	out := make([]float64, len(v))
	if mag == 0 {
		copy(out, v)
		return out
	}
	for i, x := range v {
		out[i] = x / mag
	}
	return out
}

// WeightedAverage combines embeddings into one vector, weighting each by the
// corresponding weight. Weights are normalized to sum to 1.
func WeightedAverage(embeddings [][]float64, weights []float64) ([]float64, error) {
	if len(embeddings) != len(weights) {
		return nil, eris.New("vector: embedding count does not match weight count")
	}
	if len(embeddings) == 0 {
		return nil, ErrEmptyVector
	}

	var total float64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return nil, eris.New("vector: total weight is zero")
	}

	dim := len(embeddings[0])
	out := make([]float64, dim)
	for i, emb := range embeddings {
		if len(emb) != dim {
			return nil, ErrDimensionMismatch
		}
		w := weights[i] / total
		for j, x := range emb {
			out[j] += w * x
		}
	}
	return out, nil
}
