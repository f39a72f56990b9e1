package input

import (
	"context"
	"fmt"
	"strings"
)

// LocalRecognizer is a deterministic keyword recognizer for testing and
// hosts without a chat model. It understands bare affirmations and
// denials, and "<action> a, b and c" style multi-value utterances.
type LocalRecognizer struct {
	AffirmKeywords []string
	DenyKeywords   []string
}

func NewLocalRecognizer() *LocalRecognizer {
	return &LocalRecognizer{
		AffirmKeywords: []string{"yes", "yeah", "yep", "sure", "ok", "okay", "confirm", "correct"},
		DenyKeywords:   []string{"no", "nope", "nah", "wrong", "incorrect"},
	}
}

func (r *LocalRecognizer) Recognize(ctx context.Context, utterance string, hint *Hint) (*Input, error) {
	normalized := strings.ToLower(strings.TrimSpace(utterance))
	if normalized == "" {
		return &Input{}, nil
	}
	for _, keyword := range r.AffirmKeywords {
		if normalized == keyword {
			return &Input{Feedback: FeedbackAffirm}, nil
		}
	}
	for _, keyword := range r.DenyKeywords {
		if normalized == keyword {
			return &Input{Feedback: FeedbackDeny}, nil
		}
	}

	action, rest := splitAction(normalized, hint)
	if action == "" {
		return &Input{}, nil
	}
	raw := splitValues(rest)
	if len(raw) == 0 {
		return &Input{Action: action, CatalogType: hint.CatalogType}, nil
	}
	values := make([]ResolvedValue, 0, len(raw))
	for _, token := range raw {
		values = append(values, resolveAgainstCatalog(token, hint.Catalog))
	}
	return &Input{
		Action:      action,
		Values:      values,
		CatalogType: hint.CatalogType,
	}, nil
}

func splitAction(utterance string, hint *Hint) (string, string) {
	if hint == nil {
		return "", ""
	}
	for _, action := range hint.Actions {
		prefix := strings.ToLower(action) + " "
		if strings.HasPrefix(utterance, prefix) {
			return action, strings.TrimSpace(utterance[len(prefix):])
		}
	}
	return "", ""
}

func splitValues(rest string) []string {
	rest = strings.ReplaceAll(rest, " and ", ",")
	parts := strings.Split(rest, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func resolveAgainstCatalog(token string, catalog []string) ResolvedValue {
	for _, entry := range catalog {
		if strings.EqualFold(entry, token) {
			return ResolvedValue{ID: entry, MatchedCatalog: true}
		}
	}
	return ResolvedValue{ID: token, MatchedCatalog: false}
}

// FailbackRecognizer tries recognizers in order and returns the first
// successful parse.
type FailbackRecognizer struct {
	recognizers []Recognizer
}

func NewFailbackRecognizer(recognizers ...Recognizer) *FailbackRecognizer {
	return &FailbackRecognizer{recognizers: recognizers}
}

func (r *FailbackRecognizer) Recognize(ctx context.Context, utterance string, hint *Hint) (*Input, error) {
	var lastErr error
	for _, recognizer := range r.recognizers {
		parsed, err := recognizer.Recognize(ctx, utterance, hint)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all recognizers failed: %w", lastErr)
}
