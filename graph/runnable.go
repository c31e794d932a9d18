package graph

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/stategraph/checkpoint"
	"github.com/hupe1980/stategraph/state"
)

// Runnable is a compiled, immutable state graph. It is safe for concurrent
// use; every run works on its own state snapshots and the wiring is never
// mutated after Compile.
type Runnable struct {
	schema state.Schema
	nodes  map[string]NodeFunc
	edges  map[string][]string
	routes map[string]route
	entry  string
	opts   Options
}

// Snapshot is a read-only view of a thread's checkpointed state. Next lists
// the nodes pending execution; an empty Next means the run completed.
type Snapshot struct {
	Values    state.Values
	Next      []string
	Step      int
	CreatedAt time.Time
}

// Invoke runs the graph to completion (or interrupt) and returns the final
// merged state. Passing a nil input resumes the thread selected via
// WithThreadID from its latest checkpoint.
func (r *Runnable) Invoke(ctx context.Context, input state.Values, optFns ...func(o *RunOptions)) (state.Values, error) {
	_, events, errCh, err := r.Stream(ctx, input, optFns...)
	if err != nil {
		return nil, err
	}

	var final state.Values
	for ev := range events {
		if ev.Final {
			final = ev.Values
		}
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return final, nil
}

// Stream starts an asynchronous run returning the run id plus streaming
// event and terminal error channels. One event is emitted per node
// completion and one terminal Final event per run; both channels are closed
// when execution completes, pauses on an interrupt, or fails. The error
// channel is buffered (size 1) and carries at most one terminal error.
func (r *Runnable) Stream(ctx context.Context, input state.Values, optFns ...func(o *RunOptions)) (string, <-chan Event, <-chan error, error) {
	var ro RunOptions
	for _, fn := range optFns {
		fn(&ro)
	}
	if r.opts.Checkpointer != nil && ro.ThreadID == "" {
		return "", nil, nil, ErrMissingThreadID
	}

	var (
		values   state.Values
		frontier []string
		step     int
		resuming bool
	)
	switch {
	case input != nil:
		values = r.schema.Init(input)
		frontier = []string{r.entry}
	case r.opts.Checkpointer == nil:
		return "", nil, nil, fmt.Errorf("nil input: %w", ErrNoCheckpointer)
	default:
		cp, err := r.opts.Checkpointer.Latest(ctx, ro.ThreadID)
		if err != nil {
			return "", nil, nil, fmt.Errorf("resume thread %q: %w", ro.ThreadID, err)
		}
		values = cp.Values.Clone()
		frontier = slices.Clone(cp.Next)
		step = cp.Step
		resuming = true
	}

	runID := uuid.NewString()
	events := make(chan Event, r.opts.EventBufferSize)
	errCh := make(chan error, 1)

	go r.run(ctx, runID, ro, values, frontier, step, resuming, events, errCh)

	return runID, events, errCh, nil
}

// State returns the latest checkpointed snapshot for a thread.
func (r *Runnable) State(ctx context.Context, threadID string) (*Snapshot, error) {
	if r.opts.Checkpointer == nil {
		return nil, ErrNoCheckpointer
	}
	cp, err := r.opts.Checkpointer.Latest(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Values:    cp.Values.Clone(),
		Next:      slices.Clone(cp.Next),
		Step:      cp.Step,
		CreatedAt: cp.CreatedAt,
	}, nil
}

// UpdateState merges an external update (e.g. human feedback) into a
// thread's checkpointed state through the schema reducers and persists it as
// a new checkpoint. The pending frontier is preserved so a subsequent
// resume continues where the run paused.
func (r *Runnable) UpdateState(ctx context.Context, threadID string, update state.Values) error {
	if r.opts.Checkpointer == nil {
		return ErrNoCheckpointer
	}
	cp, err := r.opts.Checkpointer.Latest(ctx, threadID)
	if err != nil {
		return err
	}
	merged := r.schema.Apply(cp.Values, update)
	if err := r.opts.Checkpointer.Put(ctx, checkpoint.New(threadID, cp.Step, merged, cp.Next)); err != nil {
		return fmt.Errorf("update state for thread %q: %w", threadID, err)
	}
	r.opts.Logger.Debug("thread state updated", "thread_id", threadID, "step", cp.Step)
	return nil
}

// run drives the superstep loop. It owns both channels and closes them on
// every exit path.
func (r *Runnable) run(
	ctx context.Context,
	runID string,
	ro RunOptions,
	values state.Values,
	frontier []string,
	step int,
	resuming bool,
	events chan<- Event,
	errCh chan<- error,
) {
	defer close(errCh)
	defer close(events)

	logger := r.opts.Logger

	emit := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			errCh <- ctx.Err()
			return false
		}
	}

	emitFinal := func(next []string) {
		ev := newEvent(runID, ro.ThreadID)
		ev.Step = step
		ev.Node = End
		ev.Values = values.Clone()
		ev.Next = slices.Clone(next)
		ev.Final = true
		emit(ev)
	}

	save := func(next []string) bool {
		if r.opts.Checkpointer == nil {
			return true
		}
		cp := checkpoint.New(ro.ThreadID, step, values, next)
		if err := r.opts.Checkpointer.Put(ctx, cp); err != nil {
			errCh <- fmt.Errorf("save checkpoint for thread %q: %w", ro.ThreadID, err)
			return false
		}
		logger.Debug("checkpoint saved", "thread_id", ro.ThreadID, "step", step, "next", next)
		return true
	}

	stepsThisRun := 0

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			errCh <- err
			return
		}

		sort.Strings(frontier)

		// A fresh run pauses before interrupt nodes; a resumed run must
		// execute them, otherwise it would pause again immediately.
		if !resuming && intersects(r.opts.InterruptBefore, frontier) {
			if !save(frontier) {
				return
			}
			logger.Info("run interrupted", "run_id", runID, "before", frontier, "step", step)
			emitFinal(frontier)
			return
		}
		resuming = false

		if stepsThisRun >= r.opts.RecursionLimit {
			errCh <- fmt.Errorf("%d supersteps without reaching %s: %w", stepsThisRun, End, ErrRecursionLimit)
			return
		}
		stepsThisRun++
		step++

		updates, err := r.execute(ctx, frontier, values, step)
		if err != nil {
			errCh <- err
			return
		}

		// Merge in sorted frontier order so parallel branches produce a
		// deterministic state regardless of goroutine scheduling.
		for i, name := range frontier {
			values = r.schema.Apply(values, updates[i])
			ev := newEvent(runID, ro.ThreadID)
			ev.Step = step
			ev.Node = name
			ev.Update = updates[i]
			if !emit(ev) {
				return
			}
		}

		next, err := r.nextFrontier(ctx, frontier, values)
		if err != nil {
			errCh <- err
			return
		}

		if !save(next) {
			return
		}

		if len(next) > 0 && intersects(r.opts.InterruptAfter, frontier) {
			logger.Info("run interrupted", "run_id", runID, "after", frontier, "step", step)
			emitFinal(next)
			return
		}

		frontier = next
	}

	logger.Info("run completed", "run_id", runID, "steps", stepsThisRun)
	emitFinal(nil)
}

// execute runs one superstep: every frontier node concurrently against the
// same snapshot. The returned updates are index-aligned with the frontier.
func (r *Runnable) execute(ctx context.Context, frontier []string, values state.Values, step int) ([]state.Values, error) {
	updates := make([]state.Values, len(frontier))
	nodeErrs := make([]error, len(frontier))

	var wg sync.WaitGroup
	for i, name := range frontier {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			start := time.Now()
			update, err := r.nodes[name](ctx, values.Clone())
			updates[i], nodeErrs[i] = update, err
			if err != nil {
				r.opts.Logger.Error("node failed", "node", name, "step", step, "duration", time.Since(start), "error", err)
				return
			}
			r.opts.Logger.Debug("node executed", "node", name, "step", step, "duration", time.Since(start))
		}(i, name)
	}
	wg.Wait()

	for i, err := range nodeErrs {
		if err != nil {
			return nil, fmt.Errorf("node %q failed at step %d: %w", frontier[i], step, err)
		}
	}
	return updates, nil
}

// nextFrontier resolves outgoing transitions of every executed node against
// the merged state. End targets drop their branch; duplicates collapse so a
// join node runs once per superstep.
func (r *Runnable) nextFrontier(ctx context.Context, frontier []string, values state.Values) ([]string, error) {
	var next []string
	seen := make(map[string]bool)

	for _, name := range frontier {
		targets := slices.Clone(r.edges[name])

		if rt, ok := r.routes[name]; ok {
			target, err := r.resolveRoute(ctx, name, rt, values)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
		}

		for _, t := range targets {
			if t == End || seen[t] {
				continue
			}
			seen[t] = true
			next = append(next, t)
		}
	}

	sort.Strings(next)
	return next, nil
}

func (r *Runnable) resolveRoute(ctx context.Context, name string, rt route, values state.Values) (string, error) {
	key := rt.router(ctx, values.Clone())
	if rt.paths == nil {
		if key != End {
			if _, ok := r.nodes[key]; !ok {
				return "", fmt.Errorf("router of node %q returned %q: %w", name, key, ErrUnknownNode)
			}
		}
		return key, nil
	}
	target, ok := rt.paths[key]
	if !ok {
		return "", &RouteError{Node: name, Key: key}
	}
	return target, nil
}

// intersects reports whether any frontier node is in the interrupt list.
func intersects(interrupt, frontier []string) bool {
	if len(interrupt) == 0 {
		return false
	}
	for _, name := range frontier {
		if slices.Contains(interrupt, name) {
			return true
		}
	}
	return false
}
