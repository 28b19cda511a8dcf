// Package chains enumerates entry-to-exit paths through the dependency graph
// and ranks them by cumulative failure risk. The top chain drives the bid
// decision; the critical-path marking feeds back into exploration priority.
package chains

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/florent/internal/graph"
	"github.com/sells-group/florent/internal/model"
	"github.com/sells-group/florent/internal/traversal"
)

// Options tunes chain enumeration.
type Options struct {
	// TopN limits how many chains are returned. Zero means all.
	TopN int
	// MaxPaths caps total enumerated paths. Dense DAGs can hold exponentially
	// many simple paths; enumeration stops once the cap is reached. Zero
	// falls back to 1000.
	MaxPaths int
}

// riskLookup resolves a node's contribution: propagated risk when available,
// else local risk, else 0 for nodes that were never evaluated.
func riskLookup(id string, assessments map[string]*model.NodeAssessment, propagated map[string]*model.PropagatedRisk) float64 {
	if pr, ok := propagated[id]; ok {
		return pr.PropagatedRisk
	}
	if a, ok := assessments[id]; ok {
		return a.RiskLevel
	}
	return 0
}

// FindChains enumerates simple paths from every structural entry node to
// every structural exit node and returns them sorted by cumulative risk,
// highest first. Ties keep enumeration order so results are deterministic.
func FindChains(g *graph.Graph, assessments map[string]*model.NodeAssessment, propagated map[string]*model.PropagatedRisk, opts Options) []model.CriticalChain {
	maxPaths := opts.MaxPaths
	if maxPaths <= 0 {
		maxPaths = 1000
	}

	exits := make(map[string]struct{})
	for _, n := range g.ExitNodes() {
		exits[n.ID] = struct{}{}
	}

	var paths [][]string
	capped := false

	var walk func(id string, path []string)
	walk = func(id string, path []string) {
		if len(paths) >= maxPaths {
			capped = true
			return
		}
		path = append(path, id)
		if _, isExit := exits[id]; isExit {
			paths = append(paths, append([]string(nil), path...))
			return
		}
		for _, child := range g.Children(id) {
			walk(child.ID, path)
		}
	}

	for _, entry := range g.EntryNodes() {
		walk(entry.ID, nil)
	}

	if capped {
		zap.L().Warn("path enumeration capped",
			zap.Int("max_paths", maxPaths),
			zap.Int("nodes", g.NodeCount()),
		)
	}

	chains := make([]model.CriticalChain, 0, len(paths))
	for _, path := range paths {
		survival := 1.0
		names := make([]string, len(path))
		for i, id := range path {
			survival *= 1 - riskLookup(id, assessments, propagated)
			if n, err := g.NodeByID(id); err == nil {
				names[i] = n.Name
			} else {
				names[i] = id
			}
		}
		chains = append(chains, model.CriticalChain{
			NodeIDs:        path,
			NodeNames:      names,
			CumulativeRisk: 1 - survival,
			Length:         len(path),
		})
	}

	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].CumulativeRisk > chains[j].CumulativeRisk
	})

	if opts.TopN > 0 && len(chains) > opts.TopN {
		chains = chains[:opts.TopN]
	}
	return chains
}

// MarkCriticalPath flags every assessment whose node sits on one of the given
// chains.
func MarkCriticalPath(assessments map[string]*model.NodeAssessment, chains []model.CriticalChain) {
	onPath := make(map[string]struct{})
	for _, c := range chains {
		for _, id := range c.NodeIDs {
			onPath[id] = struct{}{}
		}
	}
	for id, a := range assessments {
		if _, ok := onPath[id]; ok {
			a.IsOnCriticalPath = true
		}
	}
}

// CriticalPathNodes returns the ids of every node that lies on a path from
// the configured entry to the configured exit. Used before exploration to
// pre-mark nodes whose evaluation should be prioritized.
func CriticalPathNodes(g *graph.Graph) map[string]struct{} {
	out := make(map[string]struct{})
	entry, err := g.Entry()
	if err != nil {
		return out
	}
	exit, err := g.Exit()
	if err != nil {
		return out
	}

	// Forward reachability from entry.
	fromEntry := reachableFrom(g, entry.ID, g.Children)
	// Backward reachability from exit.
	toExit := reachableFrom(g, exit.ID, g.Parents)

	for id := range fromEntry {
		if _, ok := toExit[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func reachableFrom(g *graph.Graph, start string, next func(string) []*graph.Node) map[string]struct{} {
	seen := map[string]struct{}{start: {}}
	frontier := []string{start}
	for len(frontier) > 0 {
		id := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		for _, n := range next(id) {
			if _, ok := seen[n.ID]; !ok {
				seen[n.ID] = struct{}{}
				frontier = append(frontier, n.ID)
			}
		}
	}
	return seen
}

// BlastRadius walks upstream from a node and returns every ancestor id: the
// tasks whose completed work is stranded if this node fails. The bid
// recommendation uses it to size each uncontrollable dependency.
func BlastRadius(g *graph.Graph, nodeID string) []string {
	var stack traversal.NodeStack
	for _, p := range g.Parents(nodeID) {
		stack.Push(p)
	}

	seen := make(map[string]struct{})
	var out []string
	for !stack.Empty() {
		n, _ := stack.Pop()
		if _, ok := seen[n.ID]; ok {
			continue
		}
		seen[n.ID] = struct{}{}
		out = append(out, n.ID)
		for _, p := range g.Parents(n.ID) {
			stack.Push(p)
		}
	}
	return out
}
