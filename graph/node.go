package graph

import (
	"context"

	"github.com/hupe1980/stategraph/state"
)

// Reserved node names marking the virtual entry and exit of every graph.
// Start may appear as an edge source (setting the entry point) and End as an
// edge target or router path (terminating a branch).
const (
	Start = "__start__"
	End   = "__end__"
)

// NodeFunc is a single processing step. It receives a private snapshot of
// the current state and returns a partial update that the schema merges into
// the shared state. Returning nil means "no change". Implementations should
// honor ctx cancellation for long-running work.
type NodeFunc func(ctx context.Context, values state.Values) (state.Values, error)

// Router decides where execution continues after a node. The returned key is
// looked up in the path map given to AddConditionalEdges; with a nil path
// map the key is used directly as the target node name (or End).
type Router func(ctx context.Context, values state.Values) string

// route pairs a router with its optional path translation map.
type route struct {
	router Router
	paths  map[string]string
}
