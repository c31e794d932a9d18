package checkpoint

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/stategraph/state"
)

// ErrNotFound is returned when a thread has no stored checkpoints.
var ErrNotFound = errors.New("checkpoint not found")

// Checkpoint is an immutable snapshot of a thread's graph state taken after
// a superstep. Next records the frontier of nodes pending execution; an
// empty Next means the run completed.
type Checkpoint struct {
	ID        string       `json:"id"`
	ThreadID  string       `json:"thread_id"`
	Step      int          `json:"step"`
	Values    state.Values `json:"values"`
	Next      []string     `json:"next,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// New builds a checkpoint with a fresh UUID and UTC timestamp.
func New(threadID string, step int, values state.Values, next []string) Checkpoint {
	return Checkpoint{
		ID:        uuid.NewString(),
		ThreadID:  threadID,
		Step:      step,
		Values:    values.Clone(),
		Next:      slices.Clone(next),
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns an independently mutable copy.
func (c Checkpoint) Clone() Checkpoint {
	clone := c
	clone.Values = c.Values.Clone()
	clone.Next = slices.Clone(c.Next)
	return clone
}

// Saver persists checkpoints for later resumption.
//
// Implementations must:
//   - Treat stored checkpoints as immutable (clone on write and read)
//   - Return ErrNotFound from Latest when a thread has no history
//   - Be safe for concurrent use
type Saver interface {
	// Put stores a checkpoint, appending to the thread's history.
	Put(ctx context.Context, cp Checkpoint) error

	// Latest returns the most recently stored checkpoint for a thread.
	Latest(ctx context.Context, threadID string) (Checkpoint, error)

	// List returns a thread's full checkpoint history in storage order.
	List(ctx context.Context, threadID string) ([]Checkpoint, error)
}
