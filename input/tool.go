package input

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/convkit/controls/structured"
)

const (
	recognizeToolName        = "recognize_turn"
	recognizeToolDescription = "Analyze the user's utterance and extract either a bare yes/no feedback or a multi-value action with the mentioned values."
)

type recognizeRequest struct {
	Utterance string
	Hint      *Hint
}

type recognizedTurn struct {
	Feedback string   `json:"feedback,omitempty" jsonschema:"enum=,enum=affirm,enum=deny,description=Set only when the utterance is a bare yes or no reply"`
	Action   string   `json:"action,omitempty" jsonschema:"description=The action word used, chosen from the recognized vocabulary"`
	Target   string   `json:"target,omitempty" jsonschema:"description=The target word used, chosen from the recognized vocabulary, empty when absent"`
	Values   []string `json:"values,omitempty" jsonschema:"description=Every value the user mentioned, verbatim"`
}

// ToolBasedRecognizer extracts a parsed Input from free text with a forced
// tool call. Values are resolved against the hint catalog after extraction
// so the model never invents entity-resolution flags.
type ToolBasedRecognizer struct {
	chain *structured.Chain[*recognizeRequest, recognizedTurn]
}

func NewToolBasedRecognizer(chatModel model.ToolCallingChatModel) (*ToolBasedRecognizer, error) {
	chain, err := structured.NewChain[*recognizeRequest, recognizedTurn](
		chatModel,
		buildRecognizePrompt,
		recognizeToolName,
		recognizeToolDescription,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedRecognizer{chain: chain}, nil
}

func (r *ToolBasedRecognizer) Recognize(ctx context.Context, utterance string, hint *Hint) (*Input, error) {
	result, err := r.chain.Invoke(ctx, &recognizeRequest{Utterance: utterance, Hint: hint})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty result returned by %s", recognizeToolName)
	}
	parsed := &Input{
		Action:   result.Action,
		Target:   result.Target,
		Feedback: Feedback(result.Feedback),
	}
	if hint != nil {
		parsed.CatalogType = hint.CatalogType
	}
	for _, raw := range result.Values {
		var catalog []string
		if hint != nil {
			catalog = hint.Catalog
		}
		parsed.Values = append(parsed.Values, resolveAgainstCatalog(raw, catalog))
	}
	return parsed, nil
}

func buildRecognizePrompt(ctx context.Context, req *recognizeRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are the understanding layer of a voice assistant collecting a list of items.

Analyze the user's utterance together with the assistant's last question and call the '%s' tool with the result.

Rules:
- feedback: set to "affirm" or "deny" ONLY for bare yes/no style replies; leave empty otherwise.
- action: the vocabulary word the user used (or the closest one); leave empty when the utterance is a bare reply or unrelated chatter.
- values: every item the user mentioned, one entry per item, verbatim. Do not normalize or invent items.
- Prefer catalog entries when the user clearly refers to one.`, recognizeToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(FormatHint(req.Utterance, req.Hint)),
	}, nil
}
