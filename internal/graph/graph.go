// Package graph implements the directed acyclic dependency graph that the
// analysis engine explores. Nodes live in an arena keyed by id; edges
// reference nodes by id rather than by pointer, so discovery-time injection
// is O(1) and the structure stays acyclic by construction: every mutation
// re-checks reachability before committing.
package graph

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Node is a single operational requirement in the project graph. Nodes are
// immutable after construction; traversal bookkeeping (visited sets, priority
// entries) lives with the caller, never on the node.
type Node struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Category    string    `json:"category" yaml:"category"`
	Description string    `json:"description" yaml:"description"`
	Embedding   []float64 `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// Edge is a weighted directed dependency between two nodes, referenced by id.
// Weight is firm-specific affinity in [0,1] and is the only mutable field:
// the builder re-scores it after similarity weighting.
type Edge struct {
	Source       string  `json:"source" yaml:"source"`
	Target       string  `json:"target" yaml:"target"`
	Weight       float64 `json:"weight" yaml:"weight"`
	Relationship string  `json:"relationship" yaml:"relationship"`
}

// Graph is a DAG over an arena of nodes. Mutation is append-only within a
// single analysis run: nodes and edges are added, never removed.
type Graph struct {
	entryID string
	exitID  string

	nodes map[string]*Node
	order []string // node ids in insertion order, for deterministic iteration
	edges []*Edge

	out map[string][]*Edge
	in  map[string][]*Edge
}

// New creates an empty graph with the designated entry and exit node ids.
// The ids are supplied by the project definition, not inferred; Validate
// checks that both exist once construction is complete.
func New(entryID, exitID string) *Graph {
	return &Graph{
		entryID: entryID,
		exitID:  exitID,
		nodes:   make(map[string]*Node),
		out:     make(map[string][]*Edge),
		in:      make(map[string][]*Edge),
	}
}

// AddNode inserts a node into the arena. Fails with ErrDuplicateNode if the
// id is already present.
func (g *Graph) AddNode(n *Node) error {
	if _, ok := g.nodes[n.ID]; ok {
		return eris.Wrap(ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// AddEdge inserts a directed edge. Fails with ErrUnknownNode if either
// endpoint is absent, and with ErrCycle if the edge would close a directed
// cycle. The cycle check walks out-edges from the target looking for the
// source, so it costs O(V+E) in the worst case but is cheap for the
// leaf-heavy injections discovery performs.
func (g *Graph) AddEdge(e *Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return eris.Wrap(ErrUnknownNode, e.Source)
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return eris.Wrap(ErrUnknownNode, e.Target)
	}
	if e.Source == e.Target || g.reachable(e.Target, e.Source) {
		return eris.Wrap(ErrCycle, fmt.Sprintf("%s -> %s", e.Source, e.Target))
	}
	g.edges = append(g.edges, e)
	g.out[e.Source] = append(g.out[e.Source], e)
	g.in[e.Target] = append(g.in[e.Target], e)
	return nil
}

// reachable reports whether to can be reached from from via out-edges.
func (g *Graph) reachable(from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		for _, e := range g.out[cur] {
			if !seen[e.Target] {
				seen[e.Target] = true
				stack = append(stack, e.Target)
			}
		}
	}
	return false
}

// NodeByID looks up a node by id. Fails with ErrNodeNotFound.
func (g *Graph) NodeByID(id string) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, eris.Wrap(ErrNodeNotFound, id)
	}
	return n, nil
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order. The returned slice shares the
// graph's edge pointers so callers may re-score weights in place.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Parents returns the direct predecessors of the node with the given id.
func (g *Graph) Parents(id string) []*Node {
	edges := g.in[id]
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		out = append(out, g.nodes[e.Source])
	}
	return out
}

// Children returns the direct successors of the node with the given id.
func (g *Graph) Children(id string) []*Node {
	edges := g.out[id]
	out := make([]*Node, 0, len(edges))
	for _, e := range edges {
		out = append(out, g.nodes[e.Target])
	}
	return out
}

// EntryNodes returns all nodes with zero in-degree, in insertion order.
// This is the structural query; the pipeline itself resolves the configured
// entry id via Entry.
func (g *Graph) EntryNodes() []*Node {
	var out []*Node
	for _, id := range g.order {
		if len(g.in[id]) == 0 {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// ExitNodes returns all nodes with zero out-degree, in insertion order.
func (g *Graph) ExitNodes() []*Node {
	var out []*Node
	for _, id := range g.order {
		if len(g.out[id]) == 0 {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// Entry resolves the configured entry node id. Fails with ErrNodeNotFound.
func (g *Graph) Entry() (*Node, error) {
	return g.NodeByID(g.entryID)
}

// Exit resolves the configured exit node id. Fails with ErrNodeNotFound.
func (g *Graph) Exit() (*Node, error) {
	return g.NodeByID(g.exitID)
}

// EntryID returns the configured entry node id.
func (g *Graph) EntryID() string { return g.entryID }

// ExitID returns the configured exit node id.
func (g *Graph) ExitID() string { return g.exitID }

// Distance returns the shortest path length from source to target in edge
// hops (unweighted BFS). Hop count feeds decay factors only, never risk
// magnitude. Fails with ErrNoPath if target is unreachable.
func (g *Graph) Distance(sourceID, targetID string) (int, error) {
	if _, ok := g.nodes[sourceID]; !ok {
		return 0, eris.Wrap(ErrUnknownNode, sourceID)
	}
	if _, ok := g.nodes[targetID]; !ok {
		return 0, eris.Wrap(ErrUnknownNode, targetID)
	}
	if sourceID == targetID {
		return 0, nil
	}

	dist := map[string]int{sourceID: 0}
	queue := []string{sourceID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.out[cur] {
			if _, seen := dist[e.Target]; seen {
				continue
			}
			dist[e.Target] = dist[cur] + 1
			if e.Target == targetID {
				return dist[e.Target], nil
			}
			queue = append(queue, e.Target)
		}
	}
	return 0, eris.Wrap(ErrNoPath, fmt.Sprintf("%s -> %s", sourceID, targetID))
}

// Validate checks the graph invariants after construction or mutation: the
// configured entry and exit nodes exist and the graph linearizes without a
// cycle. Add-time checks should make the cycle case unreachable, but
// discovery mutates the graph mid-analysis, so propagation re-validates.
func (g *Graph) Validate() error {
	if _, err := g.Entry(); err != nil {
		return eris.Wrap(err, "entry node")
	}
	if _, err := g.Exit(); err != nil {
		return eris.Wrap(err, "exit node")
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return err
	}
	return nil
}
