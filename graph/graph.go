package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hupe1980/stategraph/logging"
	"github.com/hupe1980/stategraph/state"
)

// Graph is a mutable builder for a state graph. Add nodes and edges, set an
// entry point, then Compile into an immutable Runnable. A Graph is not safe
// for concurrent mutation and performs full validation only at Compile time
// so wiring order does not matter.
type Graph struct {
	schema state.Schema
	nodes  map[string]NodeFunc
	edges  map[string][]string
	routes map[string]route
	entry  string
}

// New creates an empty graph over the given state schema. A nil schema is
// valid: every field then merges with Replace semantics.
func New(schema state.Schema) *Graph {
	return &Graph{
		schema: schema,
		nodes:  make(map[string]NodeFunc),
		edges:  make(map[string][]string),
		routes: make(map[string]route),
	}
}

// AddNode registers a named processing step. Names must be unique and must
// not collide with the reserved Start/End sentinels.
func (g *Graph) AddNode(name string, fn NodeFunc) error {
	if name == "" || name == Start || name == End {
		return fmt.Errorf("node %q: %w", name, ErrReservedNodeName)
	}
	if fn == nil {
		return fmt.Errorf("node %q: nil node function", name)
	}
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %q: %w", name, ErrDuplicateNode)
	}
	g.nodes[name] = fn
	return nil
}

// AddEdge wires an unconditional transition. Several edges out of one node
// fan out: all targets run concurrently in the next superstep. An edge from
// Start sets the entry point; an edge to End terminates the branch.
func (g *Graph) AddEdge(from, to string) error {
	if from == End {
		return fmt.Errorf("edge cannot start at %s", End)
	}
	if to == Start {
		return fmt.Errorf("edge cannot target %s", Start)
	}
	if from == Start {
		g.entry = to
		return nil
	}
	if slices.Contains(g.edges[from], to) {
		return fmt.Errorf("edge %s -> %s already exists", from, to)
	}
	g.edges[from] = append(g.edges[from], to)
	return nil
}

// AddConditionalEdges attaches a router to a node. After the node runs, the
// router inspects the merged state and returns a key translated through
// paths into the next node (or End). With a nil paths map the key itself is
// the target. A node can carry at most one router.
func (g *Graph) AddConditionalEdges(from string, router Router, paths map[string]string) error {
	if from == Start || from == End {
		return fmt.Errorf("conditional edges from %q: %w", from, ErrReservedNodeName)
	}
	if router == nil {
		return fmt.Errorf("node %q: nil router", from)
	}
	if _, exists := g.routes[from]; exists {
		return fmt.Errorf("node %q already has conditional edges", from)
	}
	g.routes[from] = route{router: router, paths: maps.Clone(paths)}
	return nil
}

// SetEntryPoint marks the node execution starts from. Equivalent to
// AddEdge(Start, name).
func (g *Graph) SetEntryPoint(name string) error {
	return g.AddEdge(Start, name)
}

// SetFinishPoint wires a node directly to End. Equivalent to
// AddEdge(name, End).
func (g *Graph) SetFinishPoint(name string) error {
	return g.AddEdge(name, End)
}

// Compile validates the wiring and returns an immutable Runnable. The
// builder may be reused or further mutated afterwards without affecting
// compiled graphs.
func (g *Graph) Compile(optFns ...func(o *Options)) (*Runnable, error) {
	opts := Options{
		RecursionLimit:  DefaultRecursionLimit,
		EventBufferSize: DefaultEventBufferSize,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.RecursionLimit <= 0 {
		opts.RecursionLimit = DefaultRecursionLimit
	}
	if opts.EventBufferSize <= 0 {
		opts.EventBufferSize = DefaultEventBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if err := g.validate(&opts); err != nil {
		return nil, err
	}

	edges := make(map[string][]string, len(g.edges))
	for from, targets := range g.edges {
		edges[from] = slices.Clone(targets)
	}

	return &Runnable{
		schema: g.schema,
		nodes:  maps.Clone(g.nodes),
		edges:  edges,
		routes: maps.Clone(g.routes),
		entry:  g.entry,
		opts:   opts,
	}, nil
}

func (g *Graph) validate(opts *Options) error {
	if g.entry == "" {
		return ErrNoEntryPoint
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("entry point %q: %w", g.entry, ErrUnknownNode)
	}
	for from, targets := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge source %q: %w", from, ErrUnknownNode)
		}
		for _, to := range targets {
			if to == End {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				return fmt.Errorf("edge %s -> %s: %w", from, to, ErrUnknownNode)
			}
		}
	}
	for from, rt := range g.routes {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("conditional edge source %q: %w", from, ErrUnknownNode)
		}
		for key, target := range rt.paths {
			if target == End {
				continue
			}
			if _, ok := g.nodes[target]; !ok {
				return fmt.Errorf("conditional path %q -> %q from node %q: %w", key, target, from, ErrUnknownNode)
			}
		}
	}
	if len(opts.InterruptBefore)+len(opts.InterruptAfter) > 0 && opts.Checkpointer == nil {
		return fmt.Errorf("interrupts configured: %w", ErrNoCheckpointer)
	}
	for _, name := range slices.Concat(opts.InterruptBefore, opts.InterruptAfter) {
		if _, ok := g.nodes[name]; !ok {
			return fmt.Errorf("interrupt node %q: %w", name, ErrUnknownNode)
		}
	}
	return nil
}
