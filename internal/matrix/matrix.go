// Package matrix buckets evaluated nodes into the 2x2 importance/influence
// action matrix and derives the critical-dependency counts the bid decision
// rests on.
package matrix

import (
	"github.com/sells-group/florent/internal/model"
)

// Thresholds are the two independent cut points for the quadrant tests.
type Thresholds struct {
	Importance float64
	Influence  float64
}

// ClassifyNode assigns one quadrant from the node's scores. Scores at or
// above a threshold count as high, so a node sitting exactly on both
// thresholds lands in TYPE_A.
func ClassifyNode(importance, influence float64, th Thresholds) model.Quadrant {
	highImportance := importance >= th.Importance
	highInfluence := influence >= th.Influence

	switch {
	case highImportance && highInfluence:
		return model.QuadrantTypeA
	case !highImportance && highInfluence:
		return model.QuadrantTypeB
	case highImportance && !highInfluence:
		return model.QuadrantTypeC
	default:
		return model.QuadrantTypeD
	}
}

// Classify places every assessed node into exactly one quadrant. The four
// buckets partition the assessed node set.
func Classify(assessments map[string]*model.NodeAssessment, th Thresholds) map[model.Quadrant][]model.NodeClassification {
	out := map[model.Quadrant][]model.NodeClassification{
		model.QuadrantTypeA: {},
		model.QuadrantTypeB: {},
		model.QuadrantTypeC: {},
		model.QuadrantTypeD: {},
	}
	for _, a := range assessments {
		q := ClassifyNode(a.ImportanceScore, a.InfluenceScore, th)
		out[q] = append(out[q], model.NodeClassification{
			NodeID:          a.NodeID,
			NodeName:        a.NodeName,
			Quadrant:        q,
			ImportanceScore: a.ImportanceScore,
			InfluenceScore:  a.InfluenceScore,
		})
	}
	return out
}

// CriticalDependencyCount returns how many classified nodes landed in the
// danger quadrant.
func CriticalDependencyCount(classes map[model.Quadrant][]model.NodeClassification) int {
	return len(classes[model.QuadrantTypeC])
}

// ShouldBid applies the critical-dependency rule to the primary critical
// chain: when more than maxRatio of the chain's nodes are TYPE_C, the chain
// is dominated by dependencies the firm cannot control and the answer is no.
// An empty chain means nothing disqualifying was found.
func ShouldBid(classes map[model.Quadrant][]model.NodeClassification, chainNodeIDs []string, maxRatio float64) bool {
	if len(chainNodeIDs) == 0 {
		return true
	}

	criticalIDs := make(map[string]struct{}, len(classes[model.QuadrantTypeC]))
	for _, c := range classes[model.QuadrantTypeC] {
		criticalIDs[c.NodeID] = struct{}{}
	}

	onChain := 0
	for _, id := range chainNodeIDs {
		if _, ok := criticalIDs[id]; ok {
			onChain++
		}
	}
	return float64(onChain)/float64(len(chainNodeIDs)) <= maxRatio
}
