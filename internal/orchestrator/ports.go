package orchestrator

import (
	"context"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
)

// Evaluation is one verdict from the injected evaluator.
type Evaluation struct {
	Importance float64
	Influence  float64
	Reasoning  string

	InputTokens  int
	OutputTokens int
}

// Evaluator scores a node against the firm's capabilities. Implementations
// may fail; the engine retries and then falls back to default scores, so a
// single bad call never aborts an analysis.
type Evaluator interface {
	Evaluate(ctx context.Context, firm *model.Firm, node *graph.Node, distanceFromEntry int) (Evaluation, error)
}

// NodeSpec describes a node the discovery capability wants added.
type NodeSpec struct {
	Name        string
	Category    string
	Description string
}

// GapContext tells the discoverer what hole it is being asked to fill.
type GapContext struct {
	// SourceNode is the node whose evaluation or weak edge triggered
	// discovery.
	SourceNode *graph.Node
	// TargetNode is the far end of a weak edge, when the trigger was an
	// edge-weight gap rather than a high-importance evaluation.
	TargetNode *graph.Node
	// Reason is a short human-readable trigger description.
	Reason string
}

// Discovery is the discoverer's response plus its token bill.
type Discovery struct {
	Nodes []NodeSpec

	InputTokens  int
	OutputTokens int
}

// Discoverer proposes intermediate nodes the initial graph is missing.
// Discovery failures are non-fatal: the engine logs and proceeds with the
// graph it has.
type Discoverer interface {
	Discover(ctx context.Context, firm *model.Firm, gap GapContext) (Discovery, error)
}

// SimilarityScorer rates firm/node text affinity in [0,1]. Used only while
// building firm-specific edge weights, before exploration begins.
type SimilarityScorer interface {
	Similarity(ctx context.Context, textA, textB string) (float64, error)
}
