// Package riskmath holds the pure scoring functions behind risk propagation:
// the cascading failure-probability model
//
//	R_n = 1 - [(1 - min(P_local × μ, 1)) × ∏(1 - R_parent)]
//
// plus the squashing and decay helpers used when weighting edges. Everything
// here is stateless and total except WeightedSum, which fails fast on a
// missing weight because that is a configuration bug, not a runtime
// fluctuation.
package riskmath

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// ErrMissingWeight is returned by WeightedSum when a score has no weight.
var ErrMissingWeight = eris.New("riskmath: score has no matching weight")

// Sigmoid squashes x into (0, 1). Used to normalize unbounded similarity
// scores before they feed edge weights.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// InfluenceWithDecay attenuates a base influence score by hop distance:
// base × decay^distance. Decay lives in (0,1), so influence shrinks
// monotonically the further a node sits from the firm's point of engagement.
func InfluenceWithDecay(base float64, distance int, decay float64) float64 {
	return base * math.Pow(decay, float64(distance))
}

// CombineCascadingRisk folds parent risk into a node's local risk:
//
//	R = 1 - [(1 - min(local × multiplier, 1)) × ∏(1 - parent_i)]
//
// With no parents the product term is 1 and the result collapses to
// min(local × multiplier, 1), the entry-node base case. Both factors stay in
// [0,1], so the result is clamped by construction; the explicit clamp guards
// against float drift only.
func CombineCascadingRisk(localRisk, multiplier float64, parentRisks []float64) float64 {
	localFailure := math.Min(localRisk*multiplier, 1.0)
	success := 1.0 - localFailure
	for _, p := range parentRisks {
		success *= 1.0 - p
	}
	risk := 1.0 - success
	return math.Max(0.0, math.Min(1.0, risk))
}

// WeightedSum computes Σ score_i × weight_i over matching keys. Every score
// must have a weight; an absent weight fails with ErrMissingWeight rather
// than silently contributing zero.
func WeightedSum(scores, weights map[string]float64) (float64, error) {
	var sum float64
	for name, score := range scores {
		w, ok := weights[name]
		if !ok {
			return 0, eris.Wrap(ErrMissingWeight, fmt.Sprintf("score %q", name))
		}
		sum += score * w
	}
	return sum, nil
}
