// Package agent runs a dialog control as an eino ADK agent: recognize the
// utterance, dispatch it through the control, render the produced acts and
// persist the state for the next turn.
package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"

	"github.com/convkit/controls/control"
	"github.com/convkit/controls/input"
	"github.com/convkit/controls/render"
	"github.com/convkit/controls/session"
)

var _ adk.Agent = (*Adapter)(nil)

type Adapter struct {
	name        string
	description string
	ctl         *control.Control
	recognizer  input.Recognizer
	renderer    *render.Renderer
	states      session.StateReadWriter
	history     *HistoryStore
}

func NewAdapter(
	name, description string,
	ctl *control.Control,
	recognizer input.Recognizer,
	renderer *render.Renderer,
	states session.StateReadWriter,
) *Adapter {
	return &Adapter{
		name:        name,
		description: description,
		ctl:         ctl,
		recognizer:  recognizer,
		renderer:    renderer,
		states:      states,
		history:     NewMemoryHistoryStore(TurnWindowTrimmer{Turns: 50}),
	}
}

// History exposes the conversation store so an outer runner loop can feed
// the same record into adk.AgentInput.
func (a *Adapter) History() *HistoryStore {
	return a.history
}

func (a *Adapter) Name(ctx context.Context) string {
	return a.name
}

func (a *Adapter) Description(ctx context.Context) string {
	return a.description
}

// Invoke runs one full turn: reestablish state, recognize, dispatch,
// render, persist. Stages run strictly in this order; a contract
// violation inside the control propagates as a panic.
func (a *Adapter) Invoke(ctx context.Context, utterance string) (*render.Output, error) {
	state, err := a.states.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	a.ctl.SetState(state)

	lastQuestion, _ := a.history.LastQuestion(ctx)
	hint, err := a.ctl.RecognizerHint(ctx, lastQuestion)
	if err != nil {
		return nil, fmt.Errorf("build recognizer hint: %w", err)
	}
	parsed, err := a.recognizer.Recognize(ctx, utterance, hint)
	if err != nil {
		return nil, fmt.Errorf("recognize turn: %w", err)
	}

	var result *control.Result
	switch {
	case a.ctl.CanHandle(parsed):
		result, err = a.ctl.Handle(ctx, parsed)
	case a.ctl.CanTakeInitiative(ctx, parsed):
		result, err = a.ctl.TakeInitiative(ctx, parsed)
	default:
		result = &control.Result{}
	}
	if err != nil {
		return nil, fmt.Errorf("handle turn: %w", err)
	}

	out := a.renderer.RenderAll(result.Acts)
	turn := []*schema.Message{schema.UserMessage(utterance)}
	if out.Prompt != "" {
		turn = append(turn, schema.AssistantMessage(out.Prompt, nil))
	}
	_, _ = a.history.Append(ctx, turn...)
	if err := a.states.Save(ctx, a.ctl.State()); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	return out, nil
}

func (a *Adapter) Run(ctx context.Context, in *adk.AgentInput, options ...adk.AgentRunOption) *adk.AsyncIterator[*adk.AgentEvent] {
	iter, gen := adk.NewAsyncIteratorPair[*adk.AgentEvent]()
	go func() {
		defer func() {
			e := recover()
			if e != nil {
				gen.Send(&adk.AgentEvent{
					Err: fmt.Errorf("recover from panic: %v", e),
				})
			}
			gen.Close()
		}()
		if len(in.Messages) == 0 {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("no messages in input"),
			})
			return
		}
		out, err := a.Invoke(ctx, in.Messages[len(in.Messages)-1].Content)
		if err != nil {
			gen.Send(&adk.AgentEvent{
				Err: fmt.Errorf("turn failed: %w", err),
			})
			return
		}
		gen.Send(&adk.AgentEvent{
			Output: &adk.AgentOutput{
				MessageOutput: &adk.MessageVariant{
					IsStreaming: false,
					Message: &schema.Message{
						Role:    schema.Assistant,
						Content: out.Prompt,
					},
					Role: schema.Assistant,
				},
			},
		})
	}()
	return iter
}
