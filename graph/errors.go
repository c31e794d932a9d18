package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEntryPoint is returned by Compile when no entry point was set.
	ErrNoEntryPoint = errors.New("graph has no entry point")

	// ErrUnknownNode indicates an edge, router path or interrupt references
	// a node that was never added.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode indicates AddNode was called twice with one name.
	ErrDuplicateNode = errors.New("node already exists")

	// ErrReservedNodeName indicates a user node tried to use Start or End.
	ErrReservedNodeName = errors.New("reserved node name")

	// ErrRecursionLimit is returned when a run exceeds its superstep budget,
	// usually a cycle missing an exit condition.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrNoCheckpointer is returned when resumption or thread state access
	// is requested on a graph compiled without a checkpointer.
	ErrNoCheckpointer = errors.New("graph compiled without checkpointer")

	// ErrMissingThreadID is returned when a checkpointed run is started
	// without a thread id to key its history.
	ErrMissingThreadID = errors.New("thread id required")
)

// RouteError reports a router result with no matching path map entry.
type RouteError struct {
	Node string // node whose router produced the key
	Key  string // key returned by the router
}

// Error implements the error interface.
func (e *RouteError) Error() string {
	return fmt.Sprintf("node %q: router returned %q which matches no path", e.Node, e.Key)
}
