package checkpoint

import (
	"context"
	"fmt"
	"sync"
)

// MemorySaver is a volatile Saver implementation storing checkpoint history
// in a process-local map. It is safe for concurrent access and best suited
// for tests, examples and single-process applications. Checkpoints are
// cloned on both write and read so callers can never mutate stored state.
type MemorySaver struct {
	mu      sync.RWMutex
	threads map[string][]Checkpoint
}

// NewMemorySaver constructs an empty in-memory checkpoint saver.
func NewMemorySaver() *MemorySaver {
	return &MemorySaver{threads: make(map[string][]Checkpoint)}
}

// Put appends a clone of the checkpoint to the thread's history.
func (s *MemorySaver) Put(_ context.Context, cp Checkpoint) error {
	if cp.ThreadID == "" {
		return fmt.Errorf("checkpoint has no thread id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[cp.ThreadID] = append(s.threads[cp.ThreadID], cp.Clone())
	return nil
}

// Latest returns a clone of the most recent checkpoint for the thread.
func (s *MemorySaver) Latest(_ context.Context, threadID string) (Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.threads[threadID]
	if len(history) == 0 {
		return Checkpoint{}, fmt.Errorf("thread %q: %w", threadID, ErrNotFound)
	}
	return history[len(history)-1].Clone(), nil
}

// List returns clones of the thread's full history in storage order.
func (s *MemorySaver) List(_ context.Context, threadID string) ([]Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.threads[threadID]
	if len(history) == 0 {
		return nil, fmt.Errorf("thread %q: %w", threadID, ErrNotFound)
	}
	out := make([]Checkpoint, len(history))
	for i, cp := range history {
		out[i] = cp.Clone()
	}
	return out, nil
}
