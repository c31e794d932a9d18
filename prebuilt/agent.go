package prebuilt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/stategraph/checkpoint"
	"github.com/hupe1980/stategraph/graph"
	"github.com/hupe1980/stategraph/logging"
	"github.com/hupe1980/stategraph/model"
	"github.com/hupe1980/stategraph/state"
	"github.com/hupe1980/stategraph/tool"
)

// MessagesKey is the state field holding the conversation history.
const MessagesKey = "messages"

// MessagesSchema returns the canonical schema for conversational graphs:
// a single messages field whose updates append (or replace by message ID).
func MessagesSchema() state.Schema {
	return state.Schema{
		MessagesKey: {Reducer: model.AppendMessages},
	}
}

// Messages extracts the conversation history from graph state.
func Messages(values state.Values) []model.Message {
	msgs, _ := values[MessagesKey].([]model.Message)
	return msgs
}

// AgentOptions configure the prebuilt tool-calling agent.
type AgentOptions struct {
	System         string
	RecursionLimit int
	Logger         logging.Logger
	Checkpointer   checkpoint.Saver
}

// NewAgent builds and compiles a tool-calling agent graph.
//
// The graph alternates between a model node and a tools node: the model
// decides whether to call tools, the tools node executes the calls and feeds
// results back, and the loop ends once the model answers without tool calls.
func NewAgent(m model.Model, tools []tool.Tool, optFns ...func(o *AgentOptions)) (*graph.Runnable, error) {
	opts := AgentOptions{
		RecursionLimit: graph.DefaultRecursionLimit,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	byName := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		byName[t.Name()] = t
	}
	defs := tool.Definitions(tools)

	g := graph.New(MessagesSchema())

	modelNode := func(ctx context.Context, values state.Values) (state.Values, error) {
		start := time.Now()
		msg, err := model.Collect(ctx, m, model.Request{
			System:   opts.System,
			Messages: Messages(values),
			Tools:    defs,
		})
		if err != nil {
			opts.Logger.Error("model call failed", "model", m.Info().Name, "error", err)
			return nil, err
		}
		opts.Logger.Debug("model call completed",
			"model", m.Info().Name,
			"tool_calls", len(msg.ToolCalls),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return state.Values{MessagesKey: msg}, nil
	}

	toolsNode := func(ctx context.Context, values state.Values) (state.Values, error) {
		msgs := Messages(values)
		if len(msgs) == 0 {
			return nil, fmt.Errorf("tools node reached with empty conversation")
		}
		last := msgs[len(msgs)-1]

		results := make([]model.Message, 0, len(last.ToolCalls))
		for _, tc := range last.ToolCalls {
			results = append(results, executeToolCall(ctx, byName, tc, opts.Logger))
		}
		return state.Values{MessagesKey: results}, nil
	}

	if err := g.AddNode("model", modelNode); err != nil {
		return nil, err
	}
	if err := g.AddNode("tools", toolsNode); err != nil {
		return nil, err
	}
	if err := g.SetEntryPoint("model"); err != nil {
		return nil, err
	}
	if err := g.AddConditionalEdges("model", routeAfterModel, map[string]string{
		"tools": "tools",
		"end":   graph.End,
	}); err != nil {
		return nil, err
	}
	if err := g.AddEdge("tools", "model"); err != nil {
		return nil, err
	}

	return g.Compile(
		graph.WithRecursionLimit(opts.RecursionLimit),
		graph.WithLogger(opts.Logger),
		graph.WithCheckpointer(opts.Checkpointer),
	)
}

// routeAfterModel sends the graph to the tools node while the latest
// assistant message requests tool calls, otherwise finishes the run.
func routeAfterModel(ctx context.Context, values state.Values) string {
	msgs := Messages(values)
	if len(msgs) == 0 {
		return "end"
	}
	if len(msgs[len(msgs)-1].ToolCalls) > 0 {
		return "tools"
	}
	return "end"
}

// executeToolCall runs one requested call and always produces a tool message,
// converting failures into error content the model can react to.
func executeToolCall(
	ctx context.Context,
	byName map[string]tool.Tool,
	tc model.ToolCall,
	logger logging.Logger,
) model.Message {
	t, ok := byName[tc.Name]
	if !ok {
		logger.Warn("unknown tool requested", "tool", tc.Name)
		return model.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: tool %q is not available", tc.Name))
	}

	var args map[string]any
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			logger.Warn("malformed tool arguments", "tool", tc.Name, "error", err)
			return model.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: invalid arguments: %v", err))
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	start := time.Now()
	result, err := t.Call(ctx, args)
	if err != nil {
		logger.Error("tool call failed", "tool", tc.Name, "error", err)
		return model.NewToolMessage(tc.ID, tc.Name, fmt.Sprintf("Error: %v", err))
	}
	logger.Debug("tool call completed", "tool", tc.Name, "duration_ms", time.Since(start).Milliseconds())

	return model.NewToolMessage(tc.ID, tc.Name, toContent(result))
}

func toContent(result any) string {
	switch v := result.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
