package model

import (
	"context"
	"fmt"
)

// MockModel is a lightweight in-memory Model useful for tests and offline
// examples. Responses are keyed by the last message's content; unknown
// prompts get a deterministic fallback.
type MockModel struct {
	info      Info
	responses map[string]string
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Generate implements Model; emits optional streaming char chunks then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		if len(req.Messages) == 0 {
			errCh <- fmt.Errorf("no messages provided")
			return
		}
		input := req.Messages[len(req.Messages)-1].Content
		full := m.responses[input]
		if full == "" {
			full = fmt.Sprintf("Mock response to: %s", input)
		}
		if req.Stream {
			for _, r := range full {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{
					Partial: true,
					Message: Message{Role: RoleAssistant, Content: string(r)},
				}:
				}
			}
		}
		respCh <- Response{
			Message:      NewAssistantMessage(full),
			FinishReason: "stop",
		}
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
