// Package propagation turns locally assessed node risk into cascading,
// parent-aware risk with a single topological pass over the dependency graph.
package propagation

import (
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/riskmath"
)

// Propagate computes cascading risk for every assessed node, in topological
// order so parent values are final before any child reads them. Nodes without
// an assessment are skipped entirely: they get no entry and contribute
// nothing to their children. That understates risk on budget-limited runs,
// which the coverage fraction in the summary makes visible.
//
// Discovery mutates the graph after construction, so the topological sort
// re-validates acyclicity here and surfaces ErrCycle rather than assuming it.
func Propagate(g *graph.Graph, assessments map[string]*model.NodeAssessment, multiplier float64) (map[string]*model.PropagatedRisk, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*model.PropagatedRisk, len(assessments))
	for _, node := range order {
		a, ok := assessments[node.ID]
		if !ok {
			continue
		}

		var parentRisks []float64
		for _, parent := range g.Parents(node.ID) {
			if pr, ok := out[parent.ID]; ok {
				parentRisks = append(parentRisks, pr.PropagatedRisk)
			}
		}

		out[node.ID] = &model.PropagatedRisk{
			NodeID:         node.ID,
			LocalRisk:      a.RiskLevel,
			PropagatedRisk: riskmath.CombineCascadingRisk(a.RiskLevel, multiplier, parentRisks),
		}
	}

	zap.L().Debug("risk propagation complete",
		zap.Int("nodes_propagated", len(out)),
		zap.Int("nodes_total", g.NodeCount()),
	)
	return out, nil
}
