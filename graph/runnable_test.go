package graph

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/stategraph/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// accumulatorGraph mirrors the classic sequential pipeline: three processing
// nodes appending to a reduced results field, then a summarize step.
func accumulatorGraph(t *testing.T) *Runnable {
	t.Helper()

	schema := state.Schema{
		"results": {Reducer: state.Append[string](), Default: func() any { return []string(nil) }},
		"counter": {Default: func() any { return 0 }},
	}
	g := New(schema)

	process := func(name string, transform func(string) string) NodeFunc {
		return func(_ context.Context, s state.Values) (state.Values, error) {
			return state.Values{
				"results": []string{fmt.Sprintf("Node %s processed: %s", name, transform(s.String("input")))},
				"counter": s.Int("counter") + 1,
			}, nil
		}
	}

	require.NoError(t, g.AddNode("a", process("A", strings.ToUpper)))
	require.NoError(t, g.AddNode("b", process("B", strings.ToLower)))
	require.NoError(t, g.AddNode("c", func(_ context.Context, s state.Values) (state.Values, error) {
		return state.Values{
			"results": []string{fmt.Sprintf("Node C processed: %d characters", len(s.String("input")))},
			"counter": s.Int("counter") + 1,
		}, nil
	}))
	require.NoError(t, g.AddNode("summarize", func(_ context.Context, s state.Values) (state.Values, error) {
		return state.Values{
			"results": []string{fmt.Sprintf("Processed %d times with %d results", s.Int("counter"), len(s.Strings("results")))},
		}, nil
	}))

	require.NoError(t, g.SetEntryPoint("a"))
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.AddEdge("c", "summarize"))
	require.NoError(t, g.SetFinishPoint("summarize"))

	compiled, err := g.Compile()
	require.NoError(t, err)
	return compiled
}

func TestInvoke_SequentialAccumulation(t *testing.T) {
	compiled := accumulatorGraph(t)

	final, err := compiled.Invoke(context.Background(), state.Values{"input": "Hello World"})
	require.NoError(t, err)

	results := final.Strings("results")
	require.Len(t, results, 4)
	assert.Equal(t, "Node A processed: HELLO WORLD", results[0])
	assert.Equal(t, "Node B processed: hello world", results[1])
	assert.Equal(t, "Node C processed: 11 characters", results[2])
	assert.Equal(t, "Processed 3 times with 3 results", results[3])
	assert.Equal(t, 3, final.Int("counter"))
}

func TestInvoke_ConditionalBranching(t *testing.T) {
	g := New(nil)

	passthrough := func(_ context.Context, _ state.Values) (state.Values, error) { return nil, nil }
	pathNode := func(path string) NodeFunc {
		return func(_ context.Context, s state.Values) (state.Values, error) {
			return state.Values{
				"path":   path,
				"result": fmt.Sprintf("%d is %s", s.Int("number"), path),
			}, nil
		}
	}

	require.NoError(t, g.AddNode("check_number", passthrough))
	require.NoError(t, g.AddNode("even_path", pathNode("even")))
	require.NoError(t, g.AddNode("odd_path", pathNode("odd")))
	require.NoError(t, g.AddNode("finalize", passthrough))

	require.NoError(t, g.SetEntryPoint("check_number"))
	require.NoError(t, g.AddConditionalEdges("check_number",
		func(_ context.Context, s state.Values) string {
			if s.Int("number")%2 == 0 {
				return "even_path"
			}
			return "odd_path"
		},
		map[string]string{"even_path": "even_path", "odd_path": "odd_path"},
	))
	require.NoError(t, g.AddEdge("even_path", "finalize"))
	require.NoError(t, g.AddEdge("odd_path", "finalize"))
	require.NoError(t, g.SetFinishPoint("finalize"))

	compiled, err := g.Compile()
	require.NoError(t, err)

	tests := []struct {
		number int
		path   string
	}{
		{4, "even"},
		{7, "odd"},
		{10, "even"},
		{15, "odd"},
	}
	for _, tt := range tests {
		final, err := compiled.Invoke(context.Background(), state.Values{"number": tt.number})
		require.NoError(t, err)
		assert.Equal(t, tt.path, final.String("path"))
		assert.Equal(t, fmt.Sprintf("%d is %s", tt.number, tt.path), final.String("result"))
	}
}

// loopGraph builds a self-cycle with an exit condition: process increments a
// counter, check routes back until max_iterations is reached.
func loopGraph(t *testing.T, optFns ...func(o *Options)) *Runnable {
	t.Helper()

	schema := state.Schema{
		"results": {Reducer: state.Append[string]()},
	}
	g := New(schema)

	require.NoError(t, g.AddNode("process", func(_ context.Context, s state.Values) (state.Values, error) {
		counter := s.Int("counter")
		return state.Values{
			"counter": counter + 1,
			"results": []string{fmt.Sprintf("Iteration %d: Processing...", counter)},
		}, nil
	}))
	require.NoError(t, g.AddNode("check", func(_ context.Context, _ state.Values) (state.Values, error) {
		return nil, nil
	}))

	require.NoError(t, g.SetEntryPoint("process"))
	require.NoError(t, g.AddEdge("process", "check"))
	require.NoError(t, g.AddConditionalEdges("check",
		func(_ context.Context, s state.Values) string {
			if s.Int("counter") < s.Int("max_iterations") {
				return "continue"
			}
			return "end"
		},
		map[string]string{"continue": "process", "end": End},
	))

	compiled, err := g.Compile(optFns...)
	require.NoError(t, err)
	return compiled
}

func TestInvoke_LoopWithExitCondition(t *testing.T) {
	compiled := loopGraph(t)

	final, err := compiled.Invoke(context.Background(), state.Values{
		"counter":        0,
		"max_iterations": 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, final.Int("counter"))
	require.Len(t, final.Strings("results"), 5)
	assert.Equal(t, "Iteration 0: Processing...", final.Strings("results")[0])
	assert.Equal(t, "Iteration 4: Processing...", final.Strings("results")[4])
}

func TestInvoke_RecursionLimit(t *testing.T) {
	compiled := loopGraph(t, WithRecursionLimit(4))

	// exit condition unreachable within the budget
	_, err := compiled.Invoke(context.Background(), state.Values{
		"counter":        0,
		"max_iterations": 1000,
	})
	assert.ErrorIs(t, err, ErrRecursionLimit)
}

func TestInvoke_ParallelFanOut(t *testing.T) {
	schema := state.Schema{
		"results": {Reducer: state.Append[string]()},
	}
	g := New(schema)

	worker := func(name string) NodeFunc {
		return func(_ context.Context, s state.Values) (state.Values, error) {
			// both workers see the same pre-superstep snapshot
			return state.Values{"results": []string{name + " saw " + s.String("input")}}, nil
		}
	}

	require.NoError(t, g.AddNode("fan_out", func(_ context.Context, _ state.Values) (state.Values, error) {
		return nil, nil
	}))
	require.NoError(t, g.AddNode("beta", worker("beta")))
	require.NoError(t, g.AddNode("alpha", worker("alpha")))
	joinRuns := 0
	require.NoError(t, g.AddNode("join", func(_ context.Context, s state.Values) (state.Values, error) {
		joinRuns++
		return state.Values{"results": []string{fmt.Sprintf("joined %d", len(s.Strings("results")))}}, nil
	}))

	require.NoError(t, g.SetEntryPoint("fan_out"))
	require.NoError(t, g.AddEdge("fan_out", "beta"))
	require.NoError(t, g.AddEdge("fan_out", "alpha"))
	require.NoError(t, g.AddEdge("beta", "join"))
	require.NoError(t, g.AddEdge("alpha", "join"))
	require.NoError(t, g.SetFinishPoint("join"))

	compiled, err := g.Compile()
	require.NoError(t, err)

	final, err := compiled.Invoke(context.Background(), state.Values{"input": "x"})
	require.NoError(t, err)

	// merge order is sorted by node name, independent of scheduling
	assert.Equal(t, []string{"alpha saw x", "beta saw x", "joined 2"}, final.Strings("results"))
	assert.Equal(t, 1, joinRuns)
}

func TestInvoke_NodeErrorPropagates(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddNode("boom", func(_ context.Context, _ state.Values) (state.Values, error) {
		return nil, fmt.Errorf("kaput")
	}))
	require.NoError(t, g.SetEntryPoint("boom"))

	compiled, err := g.Compile()
	require.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), state.Values{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "boom" failed at step 1`)
	assert.Contains(t, err.Error(), "kaput")
}

func TestInvoke_RouterWithoutPathMap(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddNode("a", func(_ context.Context, _ state.Values) (state.Values, error) {
		return state.Values{"done": true}, nil
	}))
	require.NoError(t, g.AddNode("b", func(_ context.Context, _ state.Values) (state.Values, error) {
		return state.Values{"b_ran": true}, nil
	}))
	require.NoError(t, g.SetEntryPoint("a"))
	// nil path map: router result is the target node name
	require.NoError(t, g.AddConditionalEdges("a", func(_ context.Context, _ state.Values) string {
		return "b"
	}, nil))

	compiled, err := g.Compile()
	require.NoError(t, err)

	final, err := compiled.Invoke(context.Background(), state.Values{})
	require.NoError(t, err)
	assert.True(t, final.Bool("b_ran"))
}

func TestInvoke_RouteErrorOnUnmappedKey(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddNode("a", noopNode))
	require.NoError(t, g.SetEntryPoint("a"))
	require.NoError(t, g.AddConditionalEdges("a", func(_ context.Context, _ state.Values) string {
		return "surprise"
	}, map[string]string{"expected": End}))

	compiled, err := g.Compile()
	require.NoError(t, err)

	_, err = compiled.Invoke(context.Background(), state.Values{})
	require.Error(t, err)

	var routeErr *RouteError
	require.ErrorAs(t, err, &routeErr)
	assert.Equal(t, "a", routeErr.Node)
	assert.Equal(t, "surprise", routeErr.Key)
}

func TestInvoke_ContextCancellation(t *testing.T) {
	g := New(nil)
	require.NoError(t, g.AddNode("slow", func(ctx context.Context, _ state.Values) (state.Values, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	require.NoError(t, g.SetEntryPoint("slow"))
	require.NoError(t, g.SetFinishPoint("slow"))

	compiled, err := g.Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = compiled.Invoke(ctx, state.Values{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_EmitsNodeAndFinalEvents(t *testing.T) {
	compiled := accumulatorGraph(t)

	runID, events, errCh, err := compiled.Stream(context.Background(), state.Values{"input": "hi"})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	var collected []Event
	for ev := range events {
		collected = append(collected, ev)
	}
	require.NoError(t, <-errCh)

	// four node events plus the terminal event
	require.Len(t, collected, 5)
	nodes := make([]string, 0, 4)
	for _, ev := range collected[:4] {
		assert.Equal(t, runID, ev.RunID)
		assert.False(t, ev.Final)
		nodes = append(nodes, ev.Node)
	}
	assert.Equal(t, []string{"a", "b", "c", "summarize"}, nodes)

	final := collected[4]
	assert.True(t, final.Final)
	assert.False(t, final.Interrupted())
	assert.Equal(t, End, final.Node)
	assert.Len(t, final.Values.Strings("results"), 4)
}

func TestInvoke_ResumeWithoutCheckpointer(t *testing.T) {
	compiled := accumulatorGraph(t)

	_, err := compiled.Invoke(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoCheckpointer)
}
