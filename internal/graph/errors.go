package graph

import "github.com/rotisserie/eris"

// Structural errors are fatal to the analysis that triggered them. Callers
// match with eris.Is; wrapped variants carry the offending node/edge ids.
var (
	// ErrDuplicateNode is returned when adding a node whose id already exists.
	ErrDuplicateNode = eris.New("graph: duplicate node id")

	// ErrUnknownNode is returned when an edge references a node id that has
	// not been added to the graph.
	ErrUnknownNode = eris.New("graph: unknown node id")

	// ErrCycle is returned when an edge would create a directed cycle, or
	// when a linearization discovers the graph is not acyclic.
	ErrCycle = eris.New("graph: directed cycle")

	// ErrNodeNotFound is returned by id lookups for absent nodes, including
	// the configured entry/exit ids.
	ErrNodeNotFound = eris.New("graph: node not found")

	// ErrNoPath is returned by Distance when the target is unreachable from
	// the source.
	ErrNoPath = eris.New("graph: no path between nodes")
)
