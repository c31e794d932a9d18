// Package state defines the shared graph state: a map of named fields
// (Values), per-field merge rules (Reducer) and the Schema that binds them
// together. Nodes never mutate state directly; they return partial updates
// that the schema merges into a fresh snapshot.
package state
