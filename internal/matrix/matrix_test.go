package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/florent/internal/model"
)

var defaultThresholds = Thresholds{Importance: 0.6, Influence: 0.6}

func TestClassifyNode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		importance float64
		influence  float64
		want       model.Quadrant
	}{
		{"high stakes high control", 0.8, 0.8, model.QuadrantTypeA},
		{"low stakes high control", 0.3, 0.9, model.QuadrantTypeB},
		{"high stakes low control", 0.8, 0.2, model.QuadrantTypeC},
		{"low stakes low control", 0.2, 0.2, model.QuadrantTypeD},
		{"exactly on both thresholds", 0.6, 0.6, model.QuadrantTypeA},
		{"importance on threshold only", 0.6, 0.59, model.QuadrantTypeC},
		{"influence on threshold only", 0.59, 0.6, model.QuadrantTypeB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNode(tt.importance, tt.influence, defaultThresholds))
		})
	}
}

func assessment(id string, importance, influence float64) *model.NodeAssessment {
	return &model.NodeAssessment{
		NodeID:          id,
		NodeName:        id,
		ImportanceScore: importance,
		InfluenceScore:  influence,
		RiskLevel:       importance * (1 - influence),
	}
}

func TestClassify_PartitionsAssessedNodes(t *testing.T) {
	t.Parallel()
	assessments := map[string]*model.NodeAssessment{
		"a": assessment("a", 0.9, 0.9),
		"b": assessment("b", 0.1, 0.9),
		"c": assessment("c", 0.9, 0.1),
		"d": assessment("d", 0.1, 0.1),
		"e": assessment("e", 0.7, 0.3),
	}

	classes := Classify(assessments, defaultThresholds)

	seen := make(map[string]int)
	total := 0
	for _, nodes := range classes {
		for _, n := range nodes {
			seen[n.NodeID]++
			total++
		}
	}
	assert.Equal(t, len(assessments), total)
	for id, count := range seen {
		assert.Equal(t, 1, count, "node %s classified %d times", id, count)
	}

	assert.Equal(t, 2, CriticalDependencyCount(classes))
}

func TestClassify_EmptyInput(t *testing.T) {
	t.Parallel()
	classes := Classify(nil, defaultThresholds)
	for q, nodes := range classes {
		assert.Empty(t, nodes, "quadrant %s should be empty", q)
	}
}

func TestShouldBid(t *testing.T) {
	t.Parallel()
	classes := Classify(map[string]*model.NodeAssessment{
		"a": assessment("a", 0.9, 0.1), // TYPE_C
		"b": assessment("b", 0.9, 0.1), // TYPE_C
		"c": assessment("c", 0.9, 0.9),
		"d": assessment("d", 0.2, 0.8),
	}, defaultThresholds)

	// 2 of 4 chain nodes are critical dependencies: exactly at the 0.5 limit.
	assert.True(t, ShouldBid(classes, []string{"a", "b", "c", "d"}, 0.5))

	// 2 of 3: over the limit.
	assert.False(t, ShouldBid(classes, []string{"a", "b", "c"}, 0.5))

	// Empty chain has nothing disqualifying.
	assert.True(t, ShouldBid(classes, nil, 0.5))
}
