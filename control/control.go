// Package control implements a multi-value, list-backed dialog control:
// guarded dispatch over parsed turns, a priority-ordered initiative state
// machine, per-item confirmation and a stable pagination cursor. It
// consumes already-parsed intents (package input) and emits semantic acts
// (package act) for an external renderer.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/convkit/controls/act"
	"github.com/convkit/controls/input"
)

// Handler is the code a guard selects to handle the current turn. It
// appends its acts to res.
type Handler func(ctx context.Context, in *input.Input, res *Result) error

// Guard inspects the current state and turn and returns the handler that
// should run, or nil when the turn is not for this guard. A nil return is
// ordinary data, never an error.
type Guard func(c *Control, in *input.Input) Handler

// Result collects the semantic acts produced while handling one turn, in
// emission order.
type Result struct {
	Acts []act.Act
}

func (r *Result) add(a act.Act) {
	r.Acts = append(r.Acts, a)
}

func (r *Result) hasInitiative() bool {
	for _, a := range r.Acts {
		if _, ok := a.(act.InitiativeAct); ok {
			return true
		}
	}
	return false
}

// Control elicits, validates, confirms and paginates a multi-value slot
// across turns. One turn runs to completion before the next is accepted;
// the control never shares its state with another actor.
type Control struct {
	cfg   *Config
	state *ListState

	pending           Handler
	pendingInitiative initiativeFunc
}

func New(cfg *Config) *Control {
	return &Control{
		cfg:   cfg,
		state: NewListState(),
	}
}

func (c *Control) Config() *Config { return c.cfg }

// State exposes the turn state for session persistence.
func (c *Control) State() *ListState { return c.state }

// SetState reestablishes state loaded from session persistence. A nil
// state resets to empty.
func (c *Control) SetState(s *ListState) {
	if s == nil {
		s = NewListState()
	}
	c.state = s
	c.pending = nil
	c.pendingInitiative = nil
}

// Clear resets the collected values. The page cursor survives.
func (c *Control) Clear() {
	c.state.Clear()
}

// builtinGuards in dispatch order. The first match wins and there is no
// backtracking once its handler runs.
var builtinGuards = []Guard{
	guardAddValues,
	guardChangeValues,
	guardConfirmationAffirmed,
	guardConfirmationDenied,
}

// CanHandle reports whether this control will handle the turn, and selects
// the handler Handle will run. Custom guards are consulted first; when
// their verdict disagrees with the built-ins the disagreement is logged
// but the custom verdict stands.
func (c *Control) CanHandle(in *input.Input) bool {
	c.pending = nil

	var custom Handler
	for i, g := range c.cfg.CustomGuards {
		if h := g(c, in); h != nil {
			custom = h
			slog.Debug("custom guard matched", "guard_index", i, "catalog", c.cfg.CatalogType)
			break
		}
	}

	var builtin Handler
	for _, g := range builtinGuards {
		if h := g(c, in); h != nil {
			builtin = h
			break
		}
	}

	if len(c.cfg.CustomGuards) > 0 && (custom != nil) != (builtin != nil) {
		slog.Debug("custom guard verdict disagrees with built-ins",
			"custom", custom != nil, "builtin", builtin != nil, "catalog", c.cfg.CatalogType)
	}

	if custom != nil {
		c.pending = custom
	} else {
		c.pending = builtin
	}
	return c.pending != nil
}

// Handle runs the handler selected by the last successful CanHandle. When
// the handler produced no initiative act and the control can take
// initiative, the initiative state machine runs before returning.
// Calling Handle without a prior successful CanHandle is a fatal usage
// error.
func (c *Control) Handle(ctx context.Context, in *input.Input) (*Result, error) {
	if c.pending == nil {
		panic(fmt.Errorf("%w: Handle invoked without a successful CanHandle", ErrHandlerStateMismatch))
	}
	handler := c.pending
	c.pending = nil

	res := &Result{}
	if err := handler(ctx, in, res); err != nil {
		return nil, err
	}
	slog.Debug("turn handled", "catalog", c.cfg.CatalogType, "acts", len(res.Acts))

	if !res.hasInitiative() && c.CanTakeInitiative(ctx, in) {
		if err := c.takeInitiativeInto(ctx, in, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// guardAddValues matches the multi-value intent for this control's catalog
// with an add or set action and at least one value.
func guardAddValues(c *Control, in *input.Input) Handler {
	if in == nil || in.CatalogType != c.cfg.CatalogType {
		return nil
	}
	if in.Target != "" && !slices.Contains(c.cfg.Targets, in.Target) {
		return nil
	}
	if !slices.Contains(c.cfg.AddActions, in.Action) && !slices.Contains(c.cfg.SetActions, in.Action) {
		return nil
	}
	if len(in.Values) == 0 {
		return nil
	}
	return c.handleAddValues
}

// guardChangeValues matches the multi-value intent with a change action,
// replacing the collected values.
func guardChangeValues(c *Control, in *input.Input) Handler {
	if in == nil || in.CatalogType != c.cfg.CatalogType {
		return nil
	}
	if in.Target != "" && !slices.Contains(c.cfg.Targets, in.Target) {
		return nil
	}
	if !slices.Contains(c.cfg.ChangeActions, in.Action) {
		return nil
	}
	if len(in.Values) == 0 {
		return nil
	}
	return c.handleChangeValues
}

// guardConfirmationAffirmed matches a bare affirmative when the last
// initiative was a value confirmation.
func guardConfirmationAffirmed(c *Control, in *input.Input) Handler {
	if in == nil || in.Feedback != input.FeedbackAffirm {
		return nil
	}
	if c.state.LastInitiative == nil || c.state.LastInitiative.ActKind != act.KindConfirmValue {
		return nil
	}
	return c.handleConfirmationAffirmed
}

// guardConfirmationDenied matches a bare negative when the last initiative
// was a value confirmation.
func guardConfirmationDenied(c *Control, in *input.Input) Handler {
	if in == nil || in.Feedback != input.FeedbackDeny {
		return nil
	}
	if c.state.LastInitiative == nil || c.state.LastInitiative.ActKind != act.KindConfirmValue {
		return nil
	}
	return c.handleConfirmationDenied
}

func (c *Control) handleAddValues(ctx context.Context, in *input.Input, res *Result) error {
	added := c.collectValues(in.Values, res)
	if len(added) == 0 {
		return nil
	}
	if c.cfg.ConfirmationRequired(ctx, in) {
		// list every unconfirmed entry, not just the ones added this
		// turn, so a stale unconfirmed entry is never silently skipped
		ids := c.state.unconfirmedIDs()
		c.emitInitiative(res, act.ConfirmValue{
			ValueIDs: ids,
			Rendered: c.cfg.RenderValue(ids),
		})
		return nil
	}
	mode := c.state.ElicitationMode
	if mode == ModeNone {
		mode = ModeSet
	}
	return c.askElicitValue(ctx, mode, res)
}

func (c *Control) handleChangeValues(ctx context.Context, in *input.Input, res *Result) error {
	previousEntries := slices.Clone(c.state.Values)
	previous := c.state.ValueIDs()
	if previous == nil {
		previous = []string{}
	}
	c.state.Values = []ValueEntry{}
	replaced := c.collectValues(in.Values, res)
	if len(replaced) == 0 {
		// nothing usable; restore the snapshot verbatim so confirmation
		// and validity judgements survive the failed change
		c.state.Values = previousEntries
		return nil
	}
	c.state.PreviousValues = previous
	return c.askElicitValue(ctx, ModeChange, res)
}

// collectValues appends usable values to state and returns their ids.
// Values that fail the catalog-match requirement are reported as unusable
// and skipped.
func (c *Control) collectValues(values []input.ResolvedValue, res *Result) []string {
	added := make([]string, 0, len(values))
	for _, v := range values {
		if v.ID == "" {
			continue
		}
		if c.cfg.RequireCatalogMatch && !v.MatchedCatalog {
			res.add(act.UnusableInputValue{
				Value:  v.ID,
				Reason: "not a recognized catalog entry",
			})
			continue
		}
		c.state.Values = append(c.state.Values, ValueEntry{
			ID:             v.ID,
			MatchedCatalog: v.MatchedCatalog,
		})
		added = append(added, v.ID)
	}
	return added
}

// handleConfirmationAffirmed confirms every id referenced by the last
// confirmation initiative, not just one of them.
func (c *Control) handleConfirmationAffirmed(ctx context.Context, in *input.Input, res *Result) error {
	ids := c.state.LastInitiative.ValueIDs
	c.state.confirmAll(ids)
	c.state.LastInitiative = nil
	res.add(act.ValueConfirmed{ValueIDs: ids})
	return nil
}

// handleConfirmationDenied drops the rejected unconfirmed entries so the
// initiative machine can re-elicit.
func (c *Control) handleConfirmationDenied(ctx context.Context, in *input.Input, res *Result) error {
	ids := c.state.LastInitiative.ValueIDs
	res.add(act.ValueDisconfirmed{ValueIDs: ids})
	c.state.dropUnconfirmed(ids)
	c.state.LastInitiative = nil
	return nil
}

// emitInitiative records and appends an initiative act.
func (c *Control) emitInitiative(res *Result, ia act.InitiativeAct) {
	record := &InitiativeRecord{ActKind: ia.Kind()}
	if confirm, ok := ia.(act.ConfirmValue); ok {
		record.ValueIDs = confirm.ValueIDs
	}
	c.state.LastInitiative = record
	c.state.ActiveInitiativeAct = ia.Kind()
	res.add(ia)
	slog.Debug("initiative act emitted", "kind", ia.Kind(), "catalog", c.cfg.CatalogType)
}

// RecognizerHint builds the context an input recognizer needs: the
// control's vocabulary, the full catalog and the current choice window.
func (c *Control) RecognizerHint(ctx context.Context, lastQuestion string) (*input.Hint, error) {
	all, err := c.allChoices(ctx)
	if err != nil {
		return nil, err
	}
	return &input.Hint{
		CatalogType:  c.cfg.CatalogType,
		Actions:      c.cfg.ActionVocabulary(),
		Targets:      append([]string(nil), c.cfg.Targets...),
		Catalog:      all,
		Choices:      activePage(all, c.state.PageIndex, c.cfg.PageSize),
		LastQuestion: lastQuestion,
	}, nil
}
