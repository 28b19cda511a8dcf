// Package orchestrator is the exploration engine: it decides, within a
// node-count budget, which graph nodes get evaluated and in what order,
// drives the injected evaluator and discovery capabilities, and assembles
// the assessment map everything downstream consumes.
package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/chains"
	"github.com/sells-group/florent/internal/cost"
	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/resilience"
	"github.com/sells-group/florent/internal/traversal"
)

// Config tunes the exploration engine.
type Config struct {
	// MaxRetries is the total evaluator attempts per node before the default
	// scores kick in.
	MaxRetries int
	// BackoffBase makes retry n wait BackoffBase^n seconds.
	BackoffBase float64
	// DefaultImportance and DefaultInfluence are the fallback scores used
	// when every retry failed.
	DefaultImportance float64
	DefaultInfluence  float64
	// DiscoveryTriggerThreshold: nodes whose importance exceeds this trigger
	// a discovery call for missing intermediate dependencies.
	DiscoveryTriggerThreshold float64
	// MaxDiscoveredNodes caps graph growth across the whole run.
	MaxDiscoveredNodes int
	// MaxNodesPerGap caps how many of one discovery response get injected.
	MaxNodesPerGap int
	// DiscoveredDefaultWeight is the edge weight given to bridge edges, and
	// the factor applied to a discovered node's queue priority.
	DiscoveredDefaultWeight float64
	// CriticalPriorityMultiplier boosts the priority of children that sit on
	// an entry-to-exit path.
	CriticalPriorityMultiplier float64
}

// Result is what one exploration run produced.
type Result struct {
	Assessments map[string]*model.NodeAssessment
	Status      model.TraversalStatus
	Message     string

	NodesVisited    int
	NodesDiscovered int
	// Operations counts evaluator plus discovery calls, for budget
	// accounting and the stats endpoint.
	Operations int
}

// Engine runs one exploration over one graph. Engines are single-use and not
// safe for concurrent use; concurrent analyses each build their own.
type Engine struct {
	g          *graph.Graph
	evaluator  Evaluator
	discoverer Discoverer
	tracker    *cost.Tracker
	cfg        Config
	log        *zap.Logger

	status       model.TraversalStatus
	criticalPath map[string]struct{}
	discovered   int
	operations   int
}

// New creates an exploration engine. discoverer may be nil to disable graph
// growth; tracker may be nil when cost accounting is not wanted.
func New(g *graph.Graph, evaluator Evaluator, discoverer Discoverer, tracker *cost.Tracker, cfg Config) *Engine {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 2.0
	}
	if cfg.DiscoveredDefaultWeight <= 0 {
		cfg.DiscoveredDefaultWeight = 0.6
	}
	if cfg.CriticalPriorityMultiplier <= 0 {
		cfg.CriticalPriorityMultiplier = 1.0
	}
	return &Engine{
		g:          g,
		evaluator:  evaluator,
		discoverer: discoverer,
		tracker:    tracker,
		cfg:        cfg,
		log:        zap.L().Named("orchestrator"),
		status:     model.TraversalNotStarted,
	}
}

// Status reports the engine's traversal state.
func (e *Engine) Status() model.TraversalStatus { return e.status }

// Explore runs the risk-first traversal until the frontier empties or the
// node budget runs out. Both outcomes are normal; the Result's Status tells
// them apart. Nodes absent from the assessment map were never evaluated and
// must be treated as unknown, not as zero-risk.
func (e *Engine) Explore(ctx context.Context, firm *model.Firm, budget int) (*Result, error) {
	e.status = model.TraversalExploring
	e.criticalPath = chains.CriticalPathNodes(e.g)

	queue := traversal.NewNodeHeap()
	visited := make(map[string]struct{})
	assessments := make(map[string]*model.NodeAssessment)

	entries := e.g.EntryNodes()
	for _, n := range entries {
		queue.Push(n, 1.0)
	}
	e.log.Info("exploration started",
		zap.Int("budget", budget),
		zap.Int("entry_nodes", len(entries)),
		zap.Int("graph_nodes", e.g.NodeCount()),
	)

	for !queue.Empty() && budget > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node, _ := queue.Pop()
		if _, seen := visited[node.ID]; seen {
			// Stale duplicate entry; skipping costs no budget.
			continue
		}
		visited[node.ID] = struct{}{}
		budget--

		a := e.evaluateNode(ctx, firm, node)
		if _, onPath := e.criticalPath[node.ID]; onPath {
			a.IsOnCriticalPath = true
		}
		assessments[node.ID] = a

		if e.discoverer != nil && a.ImportanceScore > e.cfg.DiscoveryTriggerThreshold {
			e.discoverFrom(ctx, firm, node, a, queue)
		}

		for _, child := range e.g.Children(node.ID) {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			priority := a.ImportanceScore * a.RiskLevel
			if _, onPath := e.criticalPath[child.ID]; onPath {
				priority *= e.cfg.CriticalPriorityMultiplier
			}
			queue.Push(child, priority)
		}
	}

	res := &Result{
		Assessments:     assessments,
		NodesVisited:    len(visited),
		NodesDiscovered: e.discovered,
		Operations:      e.operations,
	}

	if e.frontierRemaining(queue, visited) {
		e.status = model.TraversalBudgetExhausted
		res.Message = fmt.Sprintf("budget exhausted after %d of %d nodes", len(visited), e.g.NodeCount())
	} else {
		e.status = model.TraversalComplete
		res.Message = fmt.Sprintf("explored %d nodes", len(visited))
	}
	res.Status = e.status

	e.log.Info("exploration finished",
		zap.String("status", string(res.Status)),
		zap.Int("nodes_visited", res.NodesVisited),
		zap.Int("nodes_discovered", res.NodesDiscovered),
		zap.Int("operations", res.Operations),
	)
	return res, nil
}

// evaluateNode calls the evaluator with retries and falls back to default
// scores once they are exhausted. A single node's evaluation failure must
// not crash the analysis.
func (e *Engine) evaluateNode(ctx context.Context, firm *model.Firm, node *graph.Node) *model.NodeAssessment {
	distance := e.distanceFromEntry(node.ID)

	retryCfg := resilience.EvaluatorRetryConfig(e.cfg.MaxRetries, e.cfg.BackoffBase)
	retryCfg.OnRetry = resilience.RetryLogger("evaluator", node.ID)

	e.operations++
	eval, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (Evaluation, error) {
		return e.evaluator.Evaluate(ctx, firm, node, distance)
	})
	if err != nil {
		e.log.Warn("evaluation failed, using default scores",
			zap.String("node_id", node.ID),
			zap.Error(err),
		)
		eval = Evaluation{
			Importance: e.cfg.DefaultImportance,
			Influence:  e.cfg.DefaultInfluence,
			Reasoning:  "evaluation unavailable, default scores applied",
		}
	}
	if e.tracker != nil {
		e.tracker.Record(cost.OpEvaluation, eval.InputTokens, eval.OutputTokens)
	}

	return &model.NodeAssessment{
		NodeID:          node.ID,
		NodeName:        node.Name,
		ImportanceScore: eval.Importance,
		InfluenceScore:  eval.Influence,
		RiskLevel:       eval.Importance * (1 - eval.Influence),
		Reasoning:       eval.Reasoning,
	}
}

// discoverFrom asks the discovery capability for missing dependencies around
// a high-importance node and injects what it returns, within the per-gap and
// global caps. Discovery failures mean no nodes discovered, never a failed
// analysis.
func (e *Engine) discoverFrom(ctx context.Context, firm *model.Firm, node *graph.Node, a *model.NodeAssessment, queue *traversal.NodeHeap) {
	if e.discovered >= e.cfg.MaxDiscoveredNodes {
		return
	}

	e.operations++
	disc, err := e.discoverer.Discover(ctx, firm, GapContext{
		SourceNode: node,
		Reason:     fmt.Sprintf("importance %.2f exceeds discovery threshold", a.ImportanceScore),
	})
	if e.tracker != nil {
		e.tracker.Record(cost.OpDiscovery, disc.InputTokens, disc.OutputTokens)
	}
	if err != nil {
		e.log.Warn("discovery failed, continuing without new nodes",
			zap.String("node_id", node.ID),
			zap.Error(err),
		)
		return
	}

	injected := 0
	for _, spec := range disc.Nodes {
		if injected >= e.cfg.MaxNodesPerGap || e.discovered >= e.cfg.MaxDiscoveredNodes {
			break
		}
		added := e.injectNode(node, spec)
		if added == nil {
			continue
		}
		injected++
		e.discovered++
		queue.Push(added, a.ImportanceScore*e.cfg.DiscoveredDefaultWeight)
	}
	if injected > 0 {
		e.log.Info("discovery injected nodes",
			zap.String("source_node", node.ID),
			zap.Int("injected", injected),
			zap.Int("discovered_total", e.discovered),
		)
	}
}

func (e *Engine) injectNode(source *graph.Node, spec NodeSpec) *graph.Node {
	id := fmt.Sprintf("disc_%d_%s", e.discovered, graph.Slug(spec.Name))
	n := &graph.Node{
		ID:          id,
		Name:        spec.Name,
		Category:    spec.Category,
		Description: spec.Description,
	}
	if err := e.g.AddNode(n); err != nil {
		e.log.Warn("discovered node rejected", zap.String("node_id", id), zap.Error(err))
		return nil
	}
	err := e.g.AddEdge(&graph.Edge{
		Source:       source.ID,
		Target:       id,
		Weight:       e.cfg.DiscoveredDefaultWeight,
		Relationship: "discovered-bridge",
	})
	if err != nil {
		e.log.Warn("bridge edge rejected", zap.String("node_id", id), zap.Error(err))
		return nil
	}
	return n
}

// distanceFromEntry is the hop count from the configured entry node, or 0
// when no path exists (discovered side branches).
func (e *Engine) distanceFromEntry(id string) int {
	entryID := e.g.EntryID()
	if entryID == "" || entryID == id {
		return 0
	}
	d, err := e.g.Distance(entryID, id)
	if err != nil {
		return 0
	}
	return d
}

// frontierRemaining reports whether the queue still holds any unvisited node.
func (e *Engine) frontierRemaining(queue *traversal.NodeHeap, visited map[string]struct{}) bool {
	for {
		n, ok := queue.Pop()
		if !ok {
			return false
		}
		if _, seen := visited[n.ID]; !seen {
			return true
		}
	}
}
