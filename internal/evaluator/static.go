package evaluator

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
)

// Static is a deterministic offline evaluator: scores are derived from the
// node identity alone, so repeated runs over the same graph agree exactly.
// It never discovers anything. Used for dry runs and tests where no API key
// is available.
type Static struct{}

// NewStatic creates the offline evaluator.
func NewStatic() *Static { return &Static{} }

// Evaluate derives stable pseudo-scores in [0.2, 0.8] from the node id.
func (s *Static) Evaluate(_ context.Context, _ *model.Firm, node *graph.Node, _ int) (orchestrator.Evaluation, error) {
	return orchestrator.Evaluation{
		Importance: 0.2 + 0.6*hashFrac(node.ID+"/importance"),
		Influence:  0.2 + 0.6*hashFrac(node.ID+"/influence"),
		Reasoning:  fmt.Sprintf("offline assessment of %q", node.Name),
	}, nil
}

// Discover returns no nodes; offline runs never grow the graph.
func (s *Static) Discover(context.Context, *model.Firm, orchestrator.GapContext) (orchestrator.Discovery, error) {
	return orchestrator.Discovery{}, nil
}

func hashFrac(s string) float64 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return float64(h.Sum32()) / float64(^uint32(0))
}
