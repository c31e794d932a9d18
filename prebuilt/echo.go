package prebuilt

import (
	"context"

	"github.com/hupe1980/stategraph/graph"
	"github.com/hupe1980/stategraph/model"
	"github.com/hupe1980/stategraph/state"
)

// NewEchoAgent builds a minimal single-node graph that answers every user
// message with an "Echo: " prefix. It needs no model provider and serves as
// the smallest possible end-to-end graph.
func NewEchoAgent() (*graph.Runnable, error) {
	g := graph.New(MessagesSchema())

	echo := func(ctx context.Context, values state.Values) (state.Values, error) {
		msgs := Messages(values)
		if len(msgs) == 0 {
			return nil, nil
		}
		last := msgs[len(msgs)-1]
		if last.Role != model.RoleUser {
			return nil, nil
		}
		return state.Values{
			MessagesKey: model.NewAssistantMessage("Echo: " + last.Content),
		}, nil
	}

	if err := g.AddNode("echo", echo); err != nil {
		return nil, err
	}
	if err := g.SetEntryPoint("echo"); err != nil {
		return nil, err
	}
	if err := g.SetFinishPoint("echo"); err != nil {
		return nil, err
	}

	return g.Compile()
}
