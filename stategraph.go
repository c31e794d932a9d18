// Package stategraph provides a high-level façade over the graph, state and
// checkpoint packages for building stateful, multi-step LLM applications as
// directed graphs. Most applications interact with this package by:
//  1. Declaring a state schema with per-field reducers
//  2. Building a graph via New(), adding nodes and (conditional) edges
//  3. Compiling and invoking the graph, optionally with a checkpointer for
//     persistence and human-in-the-loop interrupts
//
// The façade re-exports the most common types so simple programs need a
// single import. All defaults are safe for local development and testing;
// production deployments typically supply a durable checkpoint.Saver and a
// structured logger.
package stategraph

import (
	"github.com/hupe1980/stategraph/graph"
	"github.com/hupe1980/stategraph/state"
)

// Re-exported graph sentinels. Edges from Start define entry points; edges
// to End terminate a branch.
const (
	Start = graph.Start
	End   = graph.End
)

// Aliases for the types most programs touch.
type (
	// Values is the mutable state snapshot passed to nodes.
	Values = state.Values

	// Schema declares state fields and their update reducers.
	Schema = state.Schema

	// Field configures one schema entry.
	Field = state.Field

	// Reducer merges a field update into the existing value.
	Reducer = state.Reducer

	// Graph is the mutable builder.
	Graph = graph.Graph

	// Runnable is a compiled, immutable, executable graph.
	Runnable = graph.Runnable

	// NodeFunc is the unit of work executed at a node.
	NodeFunc = graph.NodeFunc

	// Router picks the next node after a conditional edge.
	Router = graph.Router

	// Event is one streamed execution update.
	Event = graph.Event

	// Snapshot is the persisted state of a thread.
	Snapshot = graph.Snapshot
)

// New creates a graph builder for the given state schema.
func New(schema Schema) *Graph {
	return graph.New(schema)
}
