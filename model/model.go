package model

import (
	"context"
	"fmt"
)

// ToolCall is a function invocation requested by a model, unified across
// vendors so downstream logic needs no per-provider branching.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON encoded argument payload
}

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures normalized model input.
type Request struct {
	System   string           `json:"system,omitempty"`
	Messages []Message        `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
	Stream   bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. Streaming
// adapters emit any number of Partial chunks followed by exactly one final
// Response carrying the assembled message.
type Response struct {
	Partial      bool        `json:"partial"`
	Message      Message     `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"` // "stop", "length", "tool_calls", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock", ...
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface agent graphs need to drive generation.
// Both returned channels are closed when generation terminates; the error
// channel is buffered (size 1) and carries at most one terminal error.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a Generate call and returns the final assembled message.
// It is the synchronous convenience used by graph nodes that do not stream.
func Collect(ctx context.Context, m Model, req Request) (Message, error) {
	respCh, errCh := m.Generate(ctx, req)

	var final *Response
	for resp := range respCh {
		if !resp.Partial {
			r := resp
			final = &r
		}
	}
	if err := <-errCh; err != nil {
		return Message{}, err
	}
	if final == nil {
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		default:
		}
		return Message{}, fmt.Errorf("model %q returned no final response", m.Info().Name)
	}
	return final.Message, nil
}
