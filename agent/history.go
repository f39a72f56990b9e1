package agent

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/convkit/controls/session"
)

// Trimmer bounds a conversation before it is persisted.
type Trimmer interface {
	Trim(history []*schema.Message) []*schema.Message
}

// TurnWindowTrimmer keeps every system message plus the last Turns
// conversation messages. Turns <= 0 keeps only system messages.
type TurnWindowTrimmer struct {
	Turns int
}

func (t TurnWindowTrimmer) Trim(history []*schema.Message) []*schema.Message {
	cut := len(history)
	if t.Turns > 0 {
		kept := 0
		for i := len(history) - 1; i >= 0; i-- {
			if history[i] == nil || history[i].Role == schema.System {
				continue
			}
			kept++
			if kept == t.Turns {
				cut = i
				break
			}
		}
		if kept < t.Turns {
			cut = 0
		}
	}
	out := make([]*schema.Message, 0, len(history))
	for i, m := range history {
		if m == nil {
			continue
		}
		if m.Role == schema.System || i >= cut {
			out = append(out, m)
		}
	}
	return out
}

// HistoryStore persists the per-session conversation and answers the one
// question the control cares about: what was the assistant's last
// utterance, so a bare reply in the next turn can be read in context.
type HistoryStore struct {
	store   session.Store[[]*schema.Message]
	trimmer Trimmer
}

func NewHistoryStore(core session.Cache[[]*schema.Message], trimmer Trimmer) *HistoryStore {
	return &HistoryStore{
		store:   session.NewStore(core, "controls:history", session.SessionKeyFromContext),
		trimmer: trimmer,
	}
}

func NewMemoryHistoryStore(trimmer Trimmer) *HistoryStore {
	return NewHistoryStore(session.NewMemoryCache[[]*schema.Message](), trimmer)
}

func (s *HistoryStore) Load(ctx context.Context) ([]*schema.Message, error) {
	hist, ok, err := s.store.Get(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return hist, nil
}

// Save compacts nils, trims and persists the conversation.
func (s *HistoryStore) Save(ctx context.Context, history []*schema.Message) error {
	compact := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		if m != nil {
			compact = append(compact, m)
		}
	}
	if s.trimmer != nil {
		compact = s.trimmer.Trim(compact)
	}
	return s.store.Set(ctx, compact)
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.store.Del(ctx)
}

// Append loads the conversation, appends msgs and saves. A message whose
// role and content equal the current tail is skipped, so the adapter and
// an outer runner loop can both record the same turn without doubling it.
// The saved conversation is returned for passing to adk.AgentInput.
func (s *HistoryStore) Append(ctx context.Context, msgs ...*schema.Message) ([]*schema.Message, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		if n := len(hist); n > 0 && hist[n-1].Role == msg.Role && hist[n-1].Content == msg.Content {
			continue
		}
		hist = append(hist, msg)
	}
	if err := s.Save(ctx, hist); err != nil {
		return nil, err
	}
	return hist, nil
}

// LastQuestion returns the content of the most recent assistant message,
// the utterance an affirm/deny style reply answers.
func (s *HistoryStore) LastQuestion(ctx context.Context) (string, error) {
	hist, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	for i := len(hist) - 1; i >= 0; i-- {
		if hist[i] != nil && hist[i].Role == schema.Assistant {
			return hist[i].Content, nil
		}
	}
	return "", nil
}
