package graph

import (
	"github.com/hupe1980/stategraph/checkpoint"
	"github.com/hupe1980/stategraph/logging"
)

// DefaultRecursionLimit bounds the number of supersteps per run. Cyclic
// graphs hitting this limit are almost always missing an exit condition.
const DefaultRecursionLimit = 25

// DefaultEventBufferSize is the buffer of the streamed event channel.
const DefaultEventBufferSize = 64

// Options configures a compiled graph. All fields have safe defaults; use
// the With* functional options at Compile time.
type Options struct {
	// RecursionLimit caps supersteps per run. Zero or negative selects
	// DefaultRecursionLimit.
	RecursionLimit int

	// EventBufferSize sets the streamed event channel buffer. Zero or
	// negative selects DefaultEventBufferSize.
	EventBufferSize int

	// Checkpointer persists per-thread state after every superstep,
	// enabling interrupts, resumption and state edits. Nil disables
	// checkpointing.
	Checkpointer checkpoint.Saver

	// InterruptBefore pauses the run before any listed node executes.
	// Requires a Checkpointer.
	InterruptBefore []string

	// InterruptAfter pauses the run after any listed node executes.
	// Requires a Checkpointer.
	InterruptAfter []string

	// Logger receives structured execution logs. Defaults to NoOpLogger.
	Logger logging.Logger
}

// WithRecursionLimit overrides the superstep budget per run.
func WithRecursionLimit(n int) func(o *Options) {
	return func(o *Options) { o.RecursionLimit = n }
}

// WithEventBufferSize overrides the streamed event channel buffer.
func WithEventBufferSize(n int) func(o *Options) {
	return func(o *Options) { o.EventBufferSize = n }
}

// WithCheckpointer enables per-thread persistence through the given saver.
func WithCheckpointer(saver checkpoint.Saver) func(o *Options) {
	return func(o *Options) { o.Checkpointer = saver }
}

// WithInterruptBefore pauses execution before the listed nodes run.
func WithInterruptBefore(nodes ...string) func(o *Options) {
	return func(o *Options) { o.InterruptBefore = append(o.InterruptBefore, nodes...) }
}

// WithInterruptAfter pauses execution after the listed nodes run.
func WithInterruptAfter(nodes ...string) func(o *Options) {
	return func(o *Options) { o.InterruptAfter = append(o.InterruptAfter, nodes...) }
}

// WithLogger attaches a structured logger to the compiled graph.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// RunOptions configures a single Invoke or Stream call.
type RunOptions struct {
	// ThreadID keys checkpoint history. Required when the graph was
	// compiled with a checkpointer.
	ThreadID string
}

// WithThreadID selects the checkpoint thread for this run.
func WithThreadID(id string) func(o *RunOptions) {
	return func(o *RunOptions) { o.ThreadID = id }
}
