// Package interactionmodel declares the intents and vocabulary a control
// expects the external grammar to recognize. The control never generates
// the grammar itself; it only contributes the identifiers model-generation
// tooling needs.
package interactionmodel

import (
	"encoding/json"
	"fmt"

	"github.com/eino-contrib/jsonschema"

	"github.com/convkit/controls/control"
	"github.com/convkit/controls/input"
)

// Intent names contributed by every list control.
const (
	IntentMultiValue = "MultiValueIntent"
	IntentFeedback   = "FeedbackIntent"
)

// IntentSpec names one intent and the slots it carries.
type IntentSpec struct {
	Name  string   `json:"name"`
	Slots []string `json:"slots,omitempty"`
}

// Contribution is the vocabulary a control registers with external
// grammar tooling.
type Contribution struct {
	Catalog string       `json:"catalog"`
	Intents []IntentSpec `json:"intents"`
	Actions []string     `json:"actions"`
	Targets []string     `json:"targets"`
	Choices []string     `json:"choices,omitempty"`
}

// Build collects the contribution for one control configuration.
func Build(cfg *control.Config) *Contribution {
	return &Contribution{
		Catalog: cfg.CatalogType,
		Intents: []IntentSpec{
			{Name: IntentMultiValue, Slots: []string{"action", "target", cfg.CatalogType}},
			{Name: IntentFeedback, Slots: []string{"feedback"}},
		},
		Actions: cfg.ActionVocabulary(),
		Targets: append([]string(nil), cfg.Targets...),
		Choices: append([]string(nil), cfg.Choices...),
	}
}

// InputSchema reflects the parsed-intent contract as JSON schema, for
// tooling that validates what the external NLU hands to the control.
func InputSchema() (string, error) {
	schema := jsonschema.Reflect(&input.Input{})
	schema.Title = "Parsed turn"
	schema.Description = "The parsed-intent structure a dialog control consumes: a multi-value action with resolved values, or a bare affirmative/negative feedback."
	raw, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("marshal input schema: %w", err)
	}
	return string(raw), nil
}

// Encode renders the contribution for handoff to external tooling.
func (c *Contribution) Encode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal contribution: %w", err)
	}
	return string(raw), nil
}
