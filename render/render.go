// Package render maps semantic acts to prompt and reprompt content and,
// for request acts, an optional visual directive. The mapping is a total
// switch over the closed act set; any other act type is a contract
// violation and panics.
package render

import (
	"errors"
	"fmt"

	"github.com/convkit/controls/act"
)

// ErrUnhandledAct: an act outside the closed set reached the renderer.
// This is a caller/engine desynchronization, not bad user input; Render
// panics wrapping it and must not be masked.
var ErrUnhandledAct = errors.New("unhandled act")

// Template produces prompt content from an act payload.
type Template func(a act.Act) string

// Literal wraps a fixed string as a Template.
func Literal(s string) Template {
	return func(act.Act) string { return s }
}

// VisualDirective asks the response assembler to render a document with
// the given payload on surfaces that support it.
type VisualDirective struct {
	Document string
	Choices  []string
}

// Output is the rendered fragment set for one act.
type Output struct {
	Prompt   string
	Reprompt string
	Visual   *VisualDirective
}

type templatePair struct {
	prompt   Template
	reprompt Template
}

// Renderer renders acts using configured templates, falling back to
// built-in phrasing per act kind.
type Renderer struct {
	templates      map[string]templatePair
	visualEnabled  bool
	visualDocument string
}

type Option func(*Renderer)

// WithTemplates overrides the prompt and reprompt for one act kind. A nil
// reprompt reuses the prompt.
func WithTemplates(kind string, prompt, reprompt Template) Option {
	return func(r *Renderer) {
		if reprompt == nil {
			reprompt = prompt
		}
		r.templates[kind] = templatePair{prompt: prompt, reprompt: reprompt}
	}
}

// WithVisual enables visual directives for the request acts, rendered
// into the named document.
func WithVisual(document string) Option {
	return func(r *Renderer) {
		r.visualEnabled = true
		r.visualDocument = document
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		templates: make(map[string]templatePair),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Template kind keys for WithTemplates. The initiative kinds reuse the
// act kind identifiers.
const (
	KindValueSet           = "ValueSet"
	KindValueChanged       = "ValueChanged"
	KindValueConfirmed     = "ValueConfirmed"
	KindValueDisconfirmed  = "ValueDisconfirmed"
	KindInvalidValue       = "InvalidValue"
	KindUnusableInputValue = "UnusableInputValue"
)

// Render produces the prompt, reprompt and optional visual directive for
// one act. An act outside the closed set is a fatal usage error.
func (r *Renderer) Render(a act.Act) *Output {
	switch a := a.(type) {
	case act.ValueSet:
		return r.output(KindValueSet, a, fmt.Sprintf("OK, %s.", a.Rendered))
	case act.ValueChanged:
		return r.output(KindValueChanged, a, fmt.Sprintf("OK, updated to %s.", a.Rendered))
	case act.ValueConfirmed:
		return r.output(KindValueConfirmed, a, "Great.")
	case act.ValueDisconfirmed:
		return r.output(KindValueDisconfirmed, a, "My mistake.")
	case act.InvalidValue:
		fallback := a.RenderedReason
		if fallback == "" {
			fallback = fmt.Sprintf("Sorry, %s isn't a valid choice.", a.FailedValue)
		}
		return r.output(KindInvalidValue, a, fallback)
	case act.UnusableInputValue:
		return r.output(KindUnusableInputValue, a, fmt.Sprintf("Sorry, I can't use %s.", a.Value))
	case act.ConfirmValue:
		return r.output(act.KindConfirmValue, a, fmt.Sprintf("Was that %s?", a.Rendered))
	case act.RequestValue:
		out := r.output(act.KindRequestValue, a, fmt.Sprintf("What value do you want? Choices include %s.", a.Rendered))
		r.attachVisual(out, a.Choices)
		return out
	case act.RequestChangedValue:
		out := r.output(act.KindRequestChangedValue, a, fmt.Sprintf("What would you like instead? Choices include %s.", a.Rendered))
		r.attachVisual(out, a.Choices)
		return out
	default:
		panic(fmt.Errorf("%w: %T", ErrUnhandledAct, a))
	}
}

// RenderAll renders acts in order and concatenates their fragments.
func (r *Renderer) RenderAll(acts []act.Act) *Output {
	combined := &Output{}
	for _, a := range acts {
		out := r.Render(a)
		combined.Prompt = joinFragments(combined.Prompt, out.Prompt)
		combined.Reprompt = joinFragments(combined.Reprompt, out.Reprompt)
		if out.Visual != nil {
			combined.Visual = out.Visual
		}
	}
	return combined
}

func (r *Renderer) output(kind string, a act.Act, fallback string) *Output {
	if pair, ok := r.templates[kind]; ok {
		return &Output{
			Prompt:   pair.prompt(a),
			Reprompt: pair.reprompt(a),
		}
	}
	return &Output{Prompt: fallback, Reprompt: fallback}
}

func (r *Renderer) attachVisual(out *Output, choices []string) {
	if !r.visualEnabled {
		return
	}
	out.Visual = &VisualDirective{
		Document: r.visualDocument,
		Choices:  choices,
	}
}

func joinFragments(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
