// Package graph implements a state-graph orchestration engine: user-supplied
// node functions wired by static and conditional edges, executing over a
// shared state merged through per-field reducers.
//
// A Graph is built imperatively (AddNode, AddEdge, AddConditionalEdges) or
// declaratively from a YAML Config, then compiled into an immutable Runnable.
// Execution proceeds in supersteps: all nodes in the current frontier run
// concurrently against the same snapshot, their partial updates are merged
// deterministically, and edges (or a node's router) select the next frontier.
// Cycles are permitted and bounded by a recursion limit. Compiling with a
// checkpoint.Saver adds per-thread persistence, interruption before/after
// chosen nodes, resumption, and human-in-the-loop state edits.
package graph
