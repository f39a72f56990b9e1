package control

import (
	"context"
	"strings"

	"github.com/convkit/controls/input"
	"github.com/convkit/controls/validate"
)

// StateValidator judges the current list state.
type StateValidator = validate.Validator[*ListState]

// Predicate decides a context-dependent configuration question such as
// "is a value required" or "must values be confirmed". The input is the
// current turn, or nil when the control acts without one.
type Predicate func(ctx context.Context, in *input.Input) bool

// Default vocabulary. Supplying a replacement through an option replaces
// the whole list; defaults are never merged in.
var (
	defaultSetActions    = []string{"set", "select"}
	defaultAddActions    = []string{"add", "include"}
	defaultChangeActions = []string{"change", "update"}
	defaultRemoveActions = []string{"remove", "delete"}
	defaultTargets       = []string{"choice", "list", "it"}
)

const defaultPageSize = 3

// Config is the immutable configuration of a list control. Build it with
// NewConfig; instances never share mutable defaults.
type Config struct {
	// CatalogType is the external enumeration of valid value ids this
	// control collects against.
	CatalogType string

	Choices  []string
	ChoiceFn func(ctx context.Context) ([]string, error)
	PageSize int

	Required             Predicate
	ConfirmationRequired Predicate

	// RequireCatalogMatch rejects values recognition could not resolve to
	// a catalog entry, emitting UnusableInputValue instead of collecting
	// them.
	RequireCatalogMatch bool

	Validators []StateValidator

	SetActions    []string
	AddActions    []string
	ChangeActions []string
	RemoveActions []string
	Targets       []string

	RenderValue func(ids []string) string

	// CustomGuards run before the built-in guards.
	CustomGuards []Guard
}

type Option func(*Config)

func WithChoices(ids ...string) Option {
	return func(c *Config) { c.Choices = ids }
}

// WithChoiceFn supplies the choice list from a context-dependent source,
// for example a per-user catalog fetch.
func WithChoiceFn(fn func(ctx context.Context) ([]string, error)) Option {
	return func(c *Config) { c.ChoiceFn = fn }
}

func WithPageSize(n int) Option {
	return func(c *Config) { c.PageSize = n }
}

func WithRequired(p Predicate) Option {
	return func(c *Config) { c.Required = p }
}

func WithConfirmationRequired(p Predicate) Option {
	return func(c *Config) { c.ConfirmationRequired = p }
}

func WithRequireCatalogMatch(required bool) Option {
	return func(c *Config) { c.RequireCatalogMatch = required }
}

func WithValidators(vs ...StateValidator) Option {
	return func(c *Config) { c.Validators = vs }
}

func WithSetActions(words ...string) Option {
	return func(c *Config) { c.SetActions = words }
}

func WithAddActions(words ...string) Option {
	return func(c *Config) { c.AddActions = words }
}

func WithChangeActions(words ...string) Option {
	return func(c *Config) { c.ChangeActions = words }
}

func WithRemoveActions(words ...string) Option {
	return func(c *Config) { c.RemoveActions = words }
}

func WithTargets(words ...string) Option {
	return func(c *Config) { c.Targets = words }
}

func WithValueRenderer(fn func(ids []string) string) Option {
	return func(c *Config) { c.RenderValue = fn }
}

func WithCustomGuards(guards ...Guard) Option {
	return func(c *Config) { c.CustomGuards = guards }
}

// Always is the default Predicate for required-ness and confirmation.
func Always(ctx context.Context, in *input.Input) bool { return true }

// Never disables a Predicate-controlled behavior.
func Never(ctx context.Context, in *input.Input) bool { return false }

// JoinWithAnd renders ids as "a", "a and b" or "a, b and c".
func JoinWithAnd(ids []string) string {
	switch len(ids) {
	case 0:
		return ""
	case 1:
		return ids[0]
	case 2:
		return ids[0] + " and " + ids[1]
	default:
		return strings.Join(ids[:len(ids)-1], ", ") + " and " + ids[len(ids)-1]
	}
}

// NewConfig builds a fully populated immutable config from the given
// catalog type and options.
func NewConfig(catalogType string, opts ...Option) *Config {
	cfg := &Config{
		CatalogType:          catalogType,
		PageSize:             defaultPageSize,
		Required:             Always,
		ConfirmationRequired: Always,
		SetActions:           append([]string(nil), defaultSetActions...),
		AddActions:           append([]string(nil), defaultAddActions...),
		ChangeActions:        append([]string(nil), defaultChangeActions...),
		RemoveActions:        append([]string(nil), defaultRemoveActions...),
		Targets:              append([]string(nil), defaultTargets...),
		RenderValue:          JoinWithAnd,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Required == nil {
		cfg.Required = Always
	}
	if cfg.ConfirmationRequired == nil {
		cfg.ConfirmationRequired = Always
	}
	if cfg.RenderValue == nil {
		cfg.RenderValue = JoinWithAnd
	}
	return cfg
}

// ActionVocabulary flattens every configured action list, in set, add,
// change, remove order.
func (c *Config) ActionVocabulary() []string {
	out := make([]string, 0, len(c.SetActions)+len(c.AddActions)+len(c.ChangeActions)+len(c.RemoveActions))
	out = append(out, c.SetActions...)
	out = append(out, c.AddActions...)
	out = append(out, c.ChangeActions...)
	out = append(out, c.RemoveActions...)
	return out
}
