// Package graphbuild constructs the firm-contextual dependency graph: the
// initial operation pipeline from the project requirements, firm-specific
// edge weights from the similarity scorer, and discovery-driven bridge chains
// across capability gaps.
package graphbuild

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/orchestrator"
	"github.com/sells-group/florent/internal/riskmath"
)

// Config tunes graph construction.
type Config struct {
	// DefaultEdgeWeight is used when no similarity scorer is available.
	DefaultEdgeWeight float64
	// DistanceDecayFactor attenuates similarity by hops from the entry node.
	DistanceDecayFactor float64
	// GapThreshold marks an edge as a capability gap when its weight falls
	// below it.
	GapThreshold float64
	// MaxIterations bounds the gap-filling loop.
	MaxIterations int
	// MaxGapsPerIteration bounds how many gaps one pass works on.
	MaxGapsPerIteration int
	// MaxNodesPerGap and MaxDiscoveredNodes cap graph growth.
	MaxNodesPerGap     int
	MaxDiscoveredNodes int
	// DiscoveredMinWeight floors similarity-scored edges to discovered nodes;
	// DiscoveredDefaultWeight applies when no scorer is available.
	DiscoveredMinWeight     float64
	DiscoveredDefaultWeight float64
	// BridgeGapWeight is the default weight of the chain's final edge into
	// the gap's far side; BridgeGapMinWeight floors its scored variant.
	BridgeGapWeight    float64
	BridgeGapMinWeight float64
}

// DefaultConfig returns the standard construction tuning.
func DefaultConfig() Config {
	return Config{
		DefaultEdgeWeight:       0.8,
		DistanceDecayFactor:     0.9,
		GapThreshold:            0.3,
		MaxIterations:           10,
		MaxGapsPerIteration:     5,
		MaxNodesPerGap:          3,
		MaxDiscoveredNodes:      20,
		DiscoveredMinWeight:     0.4,
		DiscoveredDefaultWeight: 0.6,
		BridgeGapWeight:         0.7,
		BridgeGapMinWeight:      0.5,
	}
}

// Builder assembles one graph for one firm/project pair. Builders are
// single-use.
type Builder struct {
	firm       *model.Firm
	project    *model.Project
	similarity orchestrator.SimilarityScorer
	discoverer orchestrator.Discoverer
	cfg        Config
	log        *zap.Logger

	discovered int
	// bridged tracks weak edges that already received a bridge chain, so
	// the gap loop does not work the same edge twice. Original edges are
	// never removed; mutation is append-only.
	bridged map[string]struct{}
}

// New creates a Builder. similarity and discoverer may each be nil, which
// disables firm-specific weighting and gap bridging respectively.
func New(firm *model.Firm, project *model.Project, similarity orchestrator.SimilarityScorer, discoverer orchestrator.Discoverer, cfg Config) *Builder {
	return &Builder{
		firm:       firm,
		project:    project,
		similarity: similarity,
		discoverer: discoverer,
		cfg:        cfg,
		log:        zap.L().Named("graphbuild"),
		bridged:    make(map[string]struct{}),
	}
}

// Build runs the three construction phases and returns a validated graph.
func (b *Builder) Build(ctx context.Context) (*graph.Graph, error) {
	if err := b.project.Validate(); err != nil {
		return nil, err
	}

	g, err := b.initialGraph()
	if err != nil {
		return nil, err
	}
	b.log.Info("initial graph built",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)

	if b.similarity != nil {
		if err := b.applyFirmWeights(ctx, g); err != nil {
			return nil, err
		}
	}

	if b.discoverer != nil {
		if err := b.fillGaps(ctx, g); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, eris.Wrap(err, "graphbuild: constructed graph invalid")
	}
	return g, nil
}

// initialGraph lays the ops requirements out as a linear pipeline between
// the entry and exit nodes.
func (b *Builder) initialGraph() (*graph.Graph, error) {
	entryID := b.project.EntryCriteria.EntryNodeID
	exitID := b.project.SuccessCriteria.ExitNodeID
	g := graph.New(entryID, exitID)

	ops := b.project.OpsRequirements
	ordered := []*graph.Node{{
		ID:          entryID,
		Name:        "Entry Point",
		Category:    ops[0].Category,
		Description: "Point where the firm engages with the project",
	}}
	for i, op := range ops {
		ordered = append(ordered, &graph.Node{
			ID:          fmt.Sprintf("op_%d", i),
			Name:        op.Name,
			Category:    op.Category,
			Description: op.Description,
		})
	}
	ordered = append(ordered, &graph.Node{
		ID:          exitID,
		Name:        "Exit Point",
		Category:    ops[len(ops)-1].Category,
		Description: "Point where the project is considered delivered",
	})

	for _, n := range ordered {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for i := 0; i < len(ordered)-1; i++ {
		err := g.AddEdge(&graph.Edge{
			Source:       ordered[i].ID,
			Target:       ordered[i+1].ID,
			Weight:       b.cfg.DefaultEdgeWeight,
			Relationship: "sequence",
		})
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// applyFirmWeights re-scores every edge as similarity(firm, target) decayed
// by the target's distance from the entry node. Scoring failures keep the
// default weight.
func (b *Builder) applyFirmWeights(ctx context.Context, g *graph.Graph) error {
	firmText := b.firm.ContextText()
	entryID := g.EntryID()

	for _, e := range g.Edges() {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := g.NodeByID(e.Target)
		if err != nil {
			return err
		}

		sim, err := b.similarity.Similarity(ctx, firmText, nodeText(target))
		if err != nil {
			b.log.Warn("similarity scoring failed, keeping default weight",
				zap.String("edge", e.Source+"->"+e.Target),
				zap.Error(err),
			)
			continue
		}

		distance, derr := g.Distance(entryID, e.Target)
		if derr != nil {
			distance = 1
		}

		w := riskmath.InfluenceWithDecay(sim, distance, b.cfg.DistanceDecayFactor)
		e.Weight = clamp01(w)
		b.log.Debug("edge weighted",
			zap.String("edge", e.Source+"->"+e.Target),
			zap.Float64("similarity", sim),
			zap.Int("distance", distance),
			zap.Float64("weight", e.Weight),
		)
	}
	return nil
}

// fillGaps iteratively bridges weak edges with discovered node chains until
// no unbridged gaps remain, the iteration limit is hit, or the discovery
// budget runs out.
func (b *Builder) fillGaps(ctx context.Context, g *graph.Graph) error {
	for iteration := 0; iteration < b.cfg.MaxIterations; iteration++ {
		gaps := b.findGaps(g)
		if len(gaps) == 0 {
			b.log.Info("no capability gaps remaining", zap.Int("iteration", iteration))
			return nil
		}
		if len(gaps) > b.cfg.MaxGapsPerIteration {
			gaps = gaps[:b.cfg.MaxGapsPerIteration]
		}
		b.log.Info("capability gaps detected",
			zap.Int("iteration", iteration),
			zap.Int("count", len(gaps)),
			zap.Float64("threshold", b.cfg.GapThreshold),
		)

		injectedAny := false
		for _, gap := range gaps {
			if b.discovered >= b.cfg.MaxDiscoveredNodes {
				b.log.Info("discovery limit reached", zap.Int("limit", b.cfg.MaxDiscoveredNodes))
				return nil
			}
			injected, err := b.bridgeGap(ctx, g, gap)
			if err != nil {
				return err
			}
			if injected {
				injectedAny = true
			}
		}
		if !injectedAny {
			return nil
		}
		if err := g.Validate(); err != nil {
			return eris.Wrap(err, "graphbuild: graph invalid after gap injection")
		}
	}
	return nil
}

// findGaps returns edges below the gap threshold that have not been bridged
// yet.
func (b *Builder) findGaps(g *graph.Graph) []*graph.Edge {
	var out []*graph.Edge
	for _, e := range g.Edges() {
		if e.Weight >= b.cfg.GapThreshold {
			continue
		}
		if _, done := b.bridged[edgeKey(e)]; done {
			continue
		}
		out = append(out, e)
	}
	return out
}

// bridgeGap asks the discoverer for intermediate nodes and threads them as a
// parallel chain source -> n1 -> ... -> nk -> target. The weak original edge
// stays in place; the chain is added alongside it.
func (b *Builder) bridgeGap(ctx context.Context, g *graph.Graph, gap *graph.Edge) (bool, error) {
	source, err := g.NodeByID(gap.Source)
	if err != nil {
		return false, err
	}
	target, err := g.NodeByID(gap.Target)
	if err != nil {
		return false, err
	}

	disc, derr := b.discoverer.Discover(ctx, b.firm, orchestrator.GapContext{
		SourceNode: source,
		TargetNode: target,
		Reason:     fmt.Sprintf("edge weight %.2f below gap threshold %.2f", gap.Weight, b.cfg.GapThreshold),
	})
	if derr != nil {
		b.log.Warn("gap discovery failed",
			zap.String("edge", gap.Source+"->"+gap.Target),
			zap.Error(derr),
		)
		b.bridged[edgeKey(gap)] = struct{}{}
		return false, nil
	}

	specs := disc.Nodes
	if len(specs) > b.cfg.MaxNodesPerGap {
		specs = specs[:b.cfg.MaxNodesPerGap]
	}
	if remaining := b.cfg.MaxDiscoveredNodes - b.discovered; len(specs) > remaining {
		specs = specs[:remaining]
	}
	b.bridged[edgeKey(gap)] = struct{}{}
	if len(specs) == 0 {
		return false, nil
	}

	prev := source
	for _, spec := range specs {
		node := &graph.Node{
			ID:          fmt.Sprintf("disc_%d_%s", b.discovered, graph.Slug(spec.Name)),
			Name:        spec.Name,
			Category:    spec.Category,
			Description: spec.Description,
		}
		if err := g.AddNode(node); err != nil {
			b.log.Warn("discovered node rejected", zap.String("node_id", node.ID), zap.Error(err))
			continue
		}
		b.discovered++

		weight := b.scoredWeight(ctx, node, b.cfg.DiscoveredDefaultWeight, b.cfg.DiscoveredMinWeight)
		err := g.AddEdge(&graph.Edge{
			Source:       prev.ID,
			Target:       node.ID,
			Weight:       weight,
			Relationship: "discovered",
		})
		if err != nil {
			return false, err
		}
		prev = node
		b.log.Info("node discovered",
			zap.String("node_id", node.ID),
			zap.String("gap", gap.Source+"->"+gap.Target),
			zap.Int("total_discovered", b.discovered),
		)
	}
	if prev == source {
		return false, nil
	}

	finalWeight := b.scoredWeight(ctx, target, b.cfg.BridgeGapWeight, b.cfg.BridgeGapMinWeight)
	err = g.AddEdge(&graph.Edge{
		Source:       prev.ID,
		Target:       target.ID,
		Weight:       finalWeight,
		Relationship: "bridges_gap",
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// scoredWeight prefers a similarity score floored at min; without a scorer
// (or on scorer failure) it falls back to def.
func (b *Builder) scoredWeight(ctx context.Context, node *graph.Node, def, min float64) float64 {
	if b.similarity == nil {
		return def
	}
	sim, err := b.similarity.Similarity(ctx, b.firm.ContextText(), nodeText(node))
	if err != nil {
		return def
	}
	if sim < min {
		return min
	}
	return clamp01(sim)
}

func nodeText(n *graph.Node) string {
	if n.Description == "" {
		return n.Name
	}
	return n.Name + ". " + n.Description
}

func edgeKey(e *graph.Edge) string {
	return e.Source + "->" + e.Target
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
