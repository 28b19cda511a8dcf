// Package pipeline runs the full bid/no-bid analysis for one firm/project
// pair: graph construction, budgeted exploration, risk propagation, matrix
// classification, critical chain detection, and the final recommendation.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/chains"
	"github.com/sells-group/florent/internal/config"
	"github.com/sells-group/florent/internal/cost"
	"github.com/sells-group/florent/internal/graphbuild"
	"github.com/sells-group/florent/internal/matrix"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
	"github.com/sells-group/florent/internal/propagation"
)

// Pipeline wires the analysis phases together. Safe for concurrent Run calls;
// per-run state (graph, engine, tracker) is created inside Run.
type Pipeline struct {
	cfg        *config.Config
	evaluator  orchestrator.Evaluator
	discoverer orchestrator.Discoverer
	similarity orchestrator.SimilarityScorer
}

// Result is one finished analysis plus its API usage, which callers fold
// into process-level metrics.
type Result struct {
	Output *model.AnalysisOutput
	Usage  cost.Usage
}

// New creates a Pipeline. similarity and discoverer may be nil; graph
// construction then falls back to default edge weights and skips gap
// bridging.
func New(cfg *config.Config, evaluator orchestrator.Evaluator, discoverer orchestrator.Discoverer, similarity orchestrator.SimilarityScorer) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		evaluator:  evaluator,
		discoverer: discoverer,
		similarity: similarity,
	}
}

// Run executes the full analysis. Budget caps how many nodes the exploration
// may evaluate; zero falls back to the configured default. Budget exhaustion
// is a normal outcome, not an error.
func (p *Pipeline) Run(ctx context.Context, firm *model.Firm, project *model.Project, budget int) (*Result, error) {
	if budget <= 0 {
		budget = p.cfg.Pipeline.DefaultBudget
	}
	runID := uuid.NewString()
	log := zap.L().Named("pipeline").With(
		zap.String("run_id", runID),
		zap.String("firm_id", firm.ID),
		zap.String("project_id", project.ID),
	)
	start := time.Now()
	log.Info("analysis starting", zap.Int("budget", budget))

	// Phase 1: firm-contextual graph construction.
	builder := graphbuild.New(firm, project, p.similarity, p.discoverer, p.graphConfig())
	g, err := builder.Build(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build graph")
	}
	log.Info("graph built",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)

	// Phase 2: budgeted exploration.
	tracker := cost.NewTracker(cost.NewCalculator(cost.DefaultRates()), p.cfg.Anthropic.Model)
	engine := orchestrator.New(g, p.evaluator, p.discoverer, tracker, p.agentConfig())
	explored, err := engine.Explore(ctx, firm, budget)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: explore graph")
	}
	log.Info("exploration finished",
		zap.String("status", string(explored.Status)),
		zap.Int("visited", explored.NodesVisited),
		zap.Int("discovered", explored.NodesDiscovered),
	)

	// Phase 3: cascading risk propagation.
	propagated, err := propagation.Propagate(g, explored.Assessments, p.cfg.Propagation.Multiplier)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: propagate risk")
	}

	// Phase 4: matrix classification.
	classes := matrix.Classify(explored.Assessments, matrix.Thresholds{
		Importance: p.cfg.Matrix.ImportanceThreshold,
		Influence:  p.cfg.Matrix.InfluenceThreshold,
	})

	// Phase 5: critical chain detection.
	topChains := chains.FindChains(g, explored.Assessments, propagated, chains.Options{
		TopN:     p.cfg.Chains.TopN,
		MaxPaths: p.cfg.Chains.MaxPaths,
	})
	chains.MarkCriticalPath(explored.Assessments, topChains)

	usage := tracker.Snapshot()
	out := &model.AnalysisOutput{
		RunID:            runID,
		Firm:             firm,
		Project:          project,
		TraversalStatus:  explored.Status,
		TraversalMessage: explored.Message,
		NodeAssessments:  explored.Assessments,
		PropagatedRisks:  propagated,
		Matrix:           classes,
		CriticalChains:   topChains,
	}
	out.Summary = summarize(out, g.NodeCount(), usage)
	out.Recommendation = recommend(out, g, p.cfg.Bidding, p.cfg.Chains.HighRiskThreshold)

	log.Info("analysis complete",
		zap.Bool("should_bid", out.Recommendation.ShouldBid),
		zap.Float64("bankability", out.Recommendation.Bankability),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return &Result{Output: out, Usage: usage}, nil
}

// summarize folds the per-node results into project-level metrics.
// Bankability is the inverse of the average propagated risk over the nodes
// the exploration reached; unevaluated nodes stay out of the average rather
// than counting as risk-free.
func summarize(out *model.AnalysisOutput, totalNodes int, usage cost.Usage) model.SummaryMetrics {
	var riskSum float64
	for _, pr := range out.PropagatedRisks {
		riskSum += pr.PropagatedRisk
	}
	bankability := 1.0
	if n := len(out.PropagatedRisks); n > 0 {
		bankability = 1.0 - riskSum/float64(n)
	}

	var worstChain float64
	if len(out.CriticalChains) > 0 {
		worstChain = out.CriticalChains[0].CumulativeRisk
	}

	classified := 0
	for _, nodes := range out.Matrix {
		classified += len(nodes)
	}
	dangerFraction := 0.0
	if classified > 0 {
		dangerFraction = float64(len(out.Matrix[model.QuadrantTypeC])) / float64(classified)
	}

	return model.SummaryMetrics{
		AggregateProjectScore:     bankability,
		CriticalFailureLikelihood: worstChain,
		NodesEvaluated:            len(out.NodeAssessments),
		TotalNodes:                totalNodes,
		DangerZoneFraction:        dangerFraction,
		TotalTokens:               usage.TotalTokens,
		EstimatedCostUSD:          usage.EstimatedCostUSD,
	}
}

func (p *Pipeline) graphConfig() graphbuild.Config {
	return graphbuild.Config{
		DefaultEdgeWeight:       p.cfg.Graph.DefaultEdgeWeight,
		DistanceDecayFactor:     p.cfg.Graph.DistanceDecayFactor,
		GapThreshold:            p.cfg.Graph.GapThreshold,
		MaxIterations:           p.cfg.Graph.MaxIterations,
		MaxGapsPerIteration:     p.cfg.Graph.MaxGapsPerIteration,
		MaxNodesPerGap:          p.cfg.Graph.MaxNodesPerGap,
		MaxDiscoveredNodes:      p.cfg.Graph.MaxDiscoveredNodes,
		DiscoveredMinWeight:     p.cfg.Graph.DiscoveredMinWeight,
		DiscoveredDefaultWeight: p.cfg.Graph.DiscoveredDefaultWeight,
		BridgeGapWeight:         p.cfg.Graph.BridgeGapWeight,
		BridgeGapMinWeight:      p.cfg.Graph.BridgeGapMinWeight,
	}
}

func (p *Pipeline) agentConfig() orchestrator.Config {
	return orchestrator.Config{
		MaxRetries:                 p.cfg.Agent.MaxRetries,
		BackoffBase:                p.cfg.Agent.BackoffBase,
		DefaultImportance:          p.cfg.Agent.DefaultImportance,
		DefaultInfluence:           p.cfg.Agent.DefaultInfluence,
		DiscoveryTriggerThreshold:  p.cfg.Agent.DiscoveryTriggerThreshold,
		MaxDiscoveredNodes:         p.cfg.Graph.MaxDiscoveredNodes,
		MaxNodesPerGap:             p.cfg.Graph.MaxNodesPerGap,
		DiscoveredDefaultWeight:    p.cfg.Graph.DiscoveredDefaultWeight,
		CriticalPriorityMultiplier: p.cfg.Chains.CriticalPriorityMultiplier,
	}
}
