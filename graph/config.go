package graph

import (
	"fmt"
	"io"

	"github.com/hupe1980/stategraph/state"
	"gopkg.in/yaml.v3"
)

// Config is a declarative description of a graph's wiring, typically loaded
// from YAML. Node and router implementations stay in Go; the config binds
// them by name, which keeps topology reviewable and editable without
// recompiling.
//
// Example:
//
//	entry: check
//	nodes: [check, even, odd, finalize]
//	edges:
//	  - {from: even, to: finalize}
//	  - {from: odd, to: finalize}
//	finish: [finalize]
//	routes:
//	  - from: check
//	    router: parity
//	    paths: {even: even, odd: odd}
type Config struct {
	Entry  string        `yaml:"entry"`
	Nodes  []string      `yaml:"nodes"`
	Edges  []EdgeConfig  `yaml:"edges,omitempty"`
	Routes []RouteConfig `yaml:"routes,omitempty"`
	Finish []string      `yaml:"finish,omitempty"`
}

// EdgeConfig declares one unconditional transition.
type EdgeConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RouteConfig declares conditional edges: the named router is looked up in
// the registry passed to FromConfig and its result translated through Paths.
type RouteConfig struct {
	From   string            `yaml:"from"`
	Router string            `yaml:"router"`
	Paths  map[string]string `yaml:"paths,omitempty"`
}

// LoadConfig decodes a YAML graph description. Unknown fields are rejected
// so typos surface as errors instead of silently dropped wiring.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode graph config: %w", err)
	}
	return &cfg, nil
}

// FromConfig builds a Graph from a declarative config, binding node and
// router implementations by name. Every name in the config must resolve;
// every registered implementation must be declared, so the config remains
// the single source of truth for topology.
func FromConfig(cfg *Config, schema state.Schema, nodes map[string]NodeFunc, routers map[string]Router) (*Graph, error) {
	g := New(schema)

	declared := make(map[string]bool, len(cfg.Nodes))
	for _, name := range cfg.Nodes {
		fn, ok := nodes[name]
		if !ok {
			return nil, fmt.Errorf("config declares node %q with no registered implementation: %w", name, ErrUnknownNode)
		}
		if err := g.AddNode(name, fn); err != nil {
			return nil, err
		}
		declared[name] = true
	}
	for name := range nodes {
		if !declared[name] {
			return nil, fmt.Errorf("registered node %q is not declared in config", name)
		}
	}

	for _, e := range cfg.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}
	for _, rc := range cfg.Routes {
		router, ok := routers[rc.Router]
		if !ok {
			return nil, fmt.Errorf("config references router %q with no registered implementation", rc.Router)
		}
		if err := g.AddConditionalEdges(rc.From, router, rc.Paths); err != nil {
			return nil, err
		}
	}
	for _, name := range cfg.Finish {
		if err := g.SetFinishPoint(name); err != nil {
			return nil, err
		}
	}
	if cfg.Entry != "" {
		if err := g.SetEntryPoint(cfg.Entry); err != nil {
			return nil, err
		}
	}

	return g, nil
}
