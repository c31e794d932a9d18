package graph

import (
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/stategraph/state"
)

// Event is the unit of streamed execution progress. One event is emitted per
// node completion carrying that node's partial update; a single terminal
// event (Final=true) carries the merged state and, when the run paused on an
// interrupt, the pending frontier in Next. After emission an event should be
// treated as immutable.
type Event struct {
	ID        string       `json:"id"`
	RunID     string       `json:"run_id"`
	ThreadID  string       `json:"thread_id,omitempty"`
	Step      int          `json:"step"`
	Node      string       `json:"node,omitempty"`
	Update    state.Values `json:"update,omitempty"`
	Values    state.Values `json:"values,omitempty"`
	Next      []string     `json:"next,omitempty"`
	Final     bool         `json:"final,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Interrupted reports whether this is a terminal event of a paused run with
// nodes still pending.
func (e Event) Interrupted() bool { return e.Final && len(e.Next) > 0 }

// newEvent creates a bare event bound to a run and thread.
func newEvent(runID, threadID string) Event {
	return Event{
		ID:        uuid.NewString(),
		RunID:     runID,
		ThreadID:  threadID,
		Timestamp: time.Now().UTC(),
	}
}
