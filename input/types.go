// Package input defines the parsed-intent boundary of a dialog control and
// optional recognizer adapters that produce parsed intents from raw text.
// The control itself never parses free text; hosts with their own NLU can
// construct Input values directly.
package input

import "context"

// Feedback is a bare affirmative or negative reply, meaningful only in the
// context of the control's last initiative act.
type Feedback string

const (
	FeedbackNone   Feedback = ""
	FeedbackAffirm Feedback = "affirm"
	FeedbackDeny   Feedback = "deny"
)

// ResolvedValue is one value string from the multi-value slot.
// MatchedCatalog records whether recognition resolved the raw text to a
// known catalog entry rather than passing through a free-form string.
type ResolvedValue struct {
	ID             string `json:"id"`
	MatchedCatalog bool   `json:"matched_catalog"`
}

// Input is a parsed turn. The multi-value path carries action, optional
// target, values and catalog type; the bare yes/no path carries only
// Feedback. Shape validation happens upstream; a missing Values slice on
// the multi-value path simply fails the guard.
type Input struct {
	Action      string          `json:"action,omitempty"`
	Target      string          `json:"target,omitempty"`
	Values      []ResolvedValue `json:"values,omitempty"`
	CatalogType string          `json:"catalog_type,omitempty"`
	Feedback    Feedback        `json:"feedback,omitempty"`
}

// Hint gives a recognizer the control's current context: its vocabulary,
// catalog entries, the active choice window and the last question asked.
type Hint struct {
	CatalogType  string
	Actions      []string
	Targets      []string
	Catalog      []string
	Choices      []string
	LastQuestion string
}

// Recognizer turns a raw utterance into a parsed Input.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string, hint *Hint) (*Input, error)
}
