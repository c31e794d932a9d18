// Package logging provides a minimal logging interface and adapters for stategraph.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the graph runtime and prebuilt agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - GraphLogger with contextual thread/run fields and domain helpers
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	runnable, err := g.Compile(graph.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
