package graph

import (
	"context"
	"testing"

	"github.com/hupe1980/stategraph/checkpoint"
	"github.com/hupe1980/stategraph/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedbackGraph builds a two-step feedback flow: ask prepares a
// question, process_feedback consumes the human's answer.
func feedbackGraph(t *testing.T, saver checkpoint.Saver, optFns ...func(o *Options)) *Runnable {
	t.Helper()

	g := New(nil)
	require.NoError(t, g.AddNode("ask", func(_ context.Context, s state.Values) (state.Values, error) {
		return state.Values{"status": "waiting_for_human"}, nil
	}))
	require.NoError(t, g.AddNode("process_feedback", func(_ context.Context, s state.Values) (state.Values, error) {
		return state.Values{
			"answer": "Thank you for your input: '" + s.String("human_feedback") + "'",
			"status": "completed",
		}, nil
	}))
	require.NoError(t, g.SetEntryPoint("ask"))
	require.NoError(t, g.AddEdge("ask", "process_feedback"))
	require.NoError(t, g.SetFinishPoint("process_feedback"))

	opts := append([]func(o *Options){WithCheckpointer(saver)}, optFns...)
	compiled, err := g.Compile(opts...)
	require.NoError(t, err)
	return compiled
}

func TestInterruptBefore_PauseUpdateResume(t *testing.T) {
	ctx := context.Background()
	saver := checkpoint.NewMemorySaver()
	compiled := feedbackGraph(t, saver, WithInterruptBefore("process_feedback"))

	// first run pauses before process_feedback
	values, err := compiled.Invoke(ctx, state.Values{
		"question": "What is your favorite programming language?",
	}, WithThreadID("1"))
	require.NoError(t, err)
	assert.Equal(t, "waiting_for_human", values.String("status"))
	assert.Empty(t, values.String("answer"))

	snap, err := compiled.State(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"process_feedback"}, snap.Next)

	// human provides feedback
	require.NoError(t, compiled.UpdateState(ctx, "1", state.Values{"human_feedback": "Go"}))

	// resume with nil input
	final, err := compiled.Invoke(ctx, nil, WithThreadID("1"))
	require.NoError(t, err)
	assert.Equal(t, "completed", final.String("status"))
	assert.Equal(t, "Thank you for your input: 'Go'", final.String("answer"))

	snap, err = compiled.State(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, snap.Next)
}

func TestInterruptAfter_Pauses(t *testing.T) {
	ctx := context.Background()
	saver := checkpoint.NewMemorySaver()
	compiled := feedbackGraph(t, saver, WithInterruptAfter("ask"))

	_, events, errCh, err := compiled.Stream(ctx, state.Values{"question": "q"}, WithThreadID("t"))
	require.NoError(t, err)

	var last Event
	for ev := range events {
		last = ev
	}
	require.NoError(t, <-errCh)

	assert.True(t, last.Interrupted())
	assert.Equal(t, []string{"process_feedback"}, last.Next)
}

func TestStream_RequiresThreadIDWithCheckpointer(t *testing.T) {
	compiled := feedbackGraph(t, checkpoint.NewMemorySaver())

	_, _, _, err := compiled.Stream(context.Background(), state.Values{})
	assert.ErrorIs(t, err, ErrMissingThreadID)
}

func TestResume_UnknownThread(t *testing.T) {
	compiled := feedbackGraph(t, checkpoint.NewMemorySaver())

	_, err := compiled.Invoke(context.Background(), nil, WithThreadID("ghost"))
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestCheckpointHistoryPerSuperstep(t *testing.T) {
	ctx := context.Background()
	saver := checkpoint.NewMemorySaver()
	compiled := feedbackGraph(t, saver)

	_, err := compiled.Invoke(ctx, state.Values{"question": "q"}, WithThreadID("h"))
	require.NoError(t, err)

	history, err := saver.List(ctx, "h")
	require.NoError(t, err)
	// one checkpoint per superstep: ask, process_feedback
	require.Len(t, history, 2)
	assert.Equal(t, []string{"process_feedback"}, history[0].Next)
	assert.Empty(t, history[1].Next)
}

func TestResume_CompletedThreadReturnsFinalState(t *testing.T) {
	ctx := context.Background()
	saver := checkpoint.NewMemorySaver()
	compiled := feedbackGraph(t, saver)

	first, err := compiled.Invoke(ctx, state.Values{
		"question":       "q",
		"human_feedback": "early",
	}, WithThreadID("done"))
	require.NoError(t, err)
	assert.Equal(t, "completed", first.String("status"))

	again, err := compiled.Invoke(ctx, nil, WithThreadID("done"))
	require.NoError(t, err)
	assert.Equal(t, first.String("answer"), again.String("answer"))
}

func TestState_WithoutCheckpointer(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddNode("a", noopNode))
	require.NoError(t, g.SetEntryPoint("a"))
	compiled, err := g.Compile()
	require.NoError(t, err)

	_, err = compiled.State(context.Background(), "t")
	assert.ErrorIs(t, err, ErrNoCheckpointer)

	err = compiled.UpdateState(context.Background(), "t", state.Values{"x": 1})
	assert.ErrorIs(t, err, ErrNoCheckpointer)
}
