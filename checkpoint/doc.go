// Package checkpoint persists per-thread graph state between supersteps,
// enabling interruption, resumption and human-in-the-loop editing. A Saver
// stores immutable Checkpoint snapshots keyed by thread ID; the in-memory
// implementation suits tests and single-process applications, while durable
// backends can implement the same interface.
package checkpoint
