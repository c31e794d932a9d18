package model

import "github.com/google/uuid"

// Conversation roles used across providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// Message is one turn of a conversation. Assistant messages may carry
// ToolCalls; tool messages answer one call via ToolCallID.
type Message struct {
	ID         string     `json:"id,omitempty"`
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// NewUserMessage builds a user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Content: content}
}

// NewAssistantMessage builds an assistant message with a fresh ID.
func NewAssistantMessage(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Content: content}
}

// NewToolMessage builds a tool result message answering the given call.
func NewToolMessage(toolCallID, name, content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleTool, ToolCallID: toolCallID, Name: name, Content: content}
}

// AppendMessages is a state.Reducer for conversation history fields: updates
// are appended, except that an update whose non-empty ID matches an existing
// message replaces it in place. Single Message updates and []Message updates
// are both accepted.
func AppendMessages(existing, update any) any {
	upd := asMessages(update)
	if upd == nil {
		return existing
	}
	cur := asMessages(existing)

	out := make([]Message, len(cur), len(cur)+len(upd))
	copy(out, cur)

next:
	for _, m := range upd {
		if m.ID != "" {
			for i, e := range out {
				if e.ID == m.ID {
					out[i] = m
					continue next
				}
			}
		}
		out = append(out, m)
	}
	return out
}

func asMessages(v any) []Message {
	switch m := v.(type) {
	case []Message:
		return m
	case Message:
		return []Message{m}
	default:
		return nil
	}
}
