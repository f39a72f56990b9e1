package control_test

import (
	"context"
	"errors"
	"testing"

	"github.com/convkit/controls/act"
	"github.com/convkit/controls/control"
	"github.com/convkit/controls/input"
	"github.com/convkit/controls/validate"
)

const catalog = "GroceryItem"

func newControl(t *testing.T, opts ...control.Option) *control.Control {
	t.Helper()
	base := []control.Option{
		control.WithChoices("apples", "bananas", "carrots", "dates", "eggs"),
		control.WithPageSize(3),
	}
	return control.New(control.NewConfig(catalog, append(base, opts...)...))
}

func addInput(ids ...string) *input.Input {
	in := &input.Input{Action: "add", CatalogType: catalog}
	for _, id := range ids {
		in.Values = append(in.Values, input.ResolvedValue{ID: id, MatchedCatalog: true})
	}
	return in
}

func handle(t *testing.T, c *control.Control, in *input.Input) *control.Result {
	t.Helper()
	if !c.CanHandle(in) {
		t.Fatalf("expected control to handle %+v", in)
	}
	res, err := c.Handle(context.Background(), in)
	if err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	return res
}

// TestEndToEndScenario walks the three-turn flow: elicit, add with
// confirmation, bare yes.
func TestEndToEndScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newControl(t)

	// turn 1: nothing to handle, control elicits with the first window
	empty := &input.Input{}
	if c.CanHandle(empty) {
		t.Fatal("empty input must not be handled")
	}
	if !c.CanTakeInitiative(ctx, empty) {
		t.Fatal("a required control with no value must take initiative")
	}
	res, err := c.TakeInitiative(ctx, empty)
	if err != nil {
		t.Fatalf("take initiative failed: %v", err)
	}
	if len(res.Acts) != 1 {
		t.Fatalf("expected one act, got %d", len(res.Acts))
	}
	request, ok := res.Acts[0].(act.RequestValue)
	if !ok {
		t.Fatalf("expected RequestValue, got %T", res.Acts[0])
	}
	wantWindow := []string{"apples", "bananas", "carrots"}
	if len(request.Choices) != len(wantWindow) {
		t.Fatalf("expected window %v, got %v", wantWindow, request.Choices)
	}
	for i := range wantWindow {
		if request.Choices[i] != wantWindow[i] {
			t.Errorf("window[%d] = %q, want %q", i, request.Choices[i], wantWindow[i])
		}
	}

	// turn 2: add two values, confirmation required
	res = handle(t, c, addInput("bananas", "dates"))
	confirm, ok := res.Acts[len(res.Acts)-1].(act.ConfirmValue)
	if !ok {
		t.Fatalf("expected ConfirmValue, got %T", res.Acts[len(res.Acts)-1])
	}
	if len(confirm.ValueIDs) != 2 || confirm.ValueIDs[0] != "bananas" || confirm.ValueIDs[1] != "dates" {
		t.Errorf("unexpected confirmation ids: %v", confirm.ValueIDs)
	}
	state := c.State()
	if len(state.Values) != 2 {
		t.Fatalf("expected 2 collected values, got %d", len(state.Values))
	}
	for _, e := range state.Values {
		if e.Confirmed {
			t.Errorf("entry %q must start unconfirmed", e.ID)
		}
	}

	// turn 3: a bare yes confirms everything, no further initiative
	res = handle(t, c, &input.Input{Feedback: input.FeedbackAffirm})
	if len(res.Acts) != 1 {
		t.Fatalf("expected exactly ValueConfirmed, got %d acts", len(res.Acts))
	}
	confirmed, ok := res.Acts[0].(act.ValueConfirmed)
	if !ok {
		t.Fatalf("expected ValueConfirmed, got %T", res.Acts[0])
	}
	if len(confirmed.ValueIDs) != 2 {
		t.Errorf("expected both ids confirmed, got %v", confirmed.ValueIDs)
	}
	for _, e := range c.State().Values {
		if !e.Confirmed {
			t.Errorf("entry %q should be confirmed", e.ID)
		}
	}
	if c.CanTakeInitiative(ctx, nil) {
		t.Error("no initiative expected after full confirmation")
	}
}

// TestValuesOnlyGrow verifies add turns never drop entries until Clear.
func TestValuesOnlyGrow(t *testing.T) {
	t.Parallel()
	c := newControl(t, control.WithConfirmationRequired(control.Never))

	previous := 0
	for _, ids := range [][]string{{"apples"}, {"bananas", "carrots"}, {"dates"}} {
		handle(t, c, addInput(ids...))
		if got := len(c.State().Values); got < previous {
			t.Fatalf("values shrank from %d to %d", previous, got)
		} else {
			previous = got
		}
	}
	if previous != 4 {
		t.Fatalf("expected 4 collected values, got %d", previous)
	}

	c.Clear()
	if c.State().Values != nil {
		t.Error("Clear must reset values to the no-value sentinel")
	}
}

// TestConfirmListsAllUnconfirmed: the emitted id set equals the
// unconfirmed set at emission time, including stale entries.
func TestConfirmListsAllUnconfirmed(t *testing.T) {
	t.Parallel()
	c := newControl(t)

	handle(t, c, addInput("apples"))
	// apples left unconfirmed on purpose; adding more must re-list it
	res := handle(t, c, addInput("bananas"))
	confirm, ok := res.Acts[len(res.Acts)-1].(act.ConfirmValue)
	if !ok {
		t.Fatalf("expected ConfirmValue, got %T", res.Acts[len(res.Acts)-1])
	}
	if len(confirm.ValueIDs) != 2 {
		t.Fatalf("expected apples and bananas listed, got %v", confirm.ValueIDs)
	}
}

func TestDisconfirmDropsEntriesAndReelicits(t *testing.T) {
	t.Parallel()
	c := newControl(t)

	handle(t, c, addInput("apples", "bananas"))
	res := handle(t, c, &input.Input{Feedback: input.FeedbackDeny})

	if _, ok := res.Acts[0].(act.ValueDisconfirmed); !ok {
		t.Fatalf("expected ValueDisconfirmed first, got %T", res.Acts[0])
	}
	if len(c.State().Values) != 0 {
		t.Errorf("denied entries should be dropped, still have %v", c.State().ValueIDs())
	}
	last := res.Acts[len(res.Acts)-1]
	if _, ok := last.(act.RequestValue); !ok {
		t.Errorf("expected re-elicitation after denial, got %T", last)
	}
}

func TestHandleWithoutCanHandlePanics(t *testing.T) {
	t.Parallel()
	c := newControl(t)

	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatal("expected a panic")
		}
		err, ok := recovered.(error)
		if !ok || !errors.Is(err, control.ErrHandlerStateMismatch) {
			t.Fatalf("expected ErrHandlerStateMismatch, got %v", recovered)
		}
	}()
	_, _ = c.Handle(context.Background(), addInput("apples"))
}

func TestGuardRejectsForeignCatalogAndVocabulary(t *testing.T) {
	t.Parallel()
	c := newControl(t)

	foreign := addInput("apples")
	foreign.CatalogType = "OtherCatalog"
	if c.CanHandle(foreign) {
		t.Error("foreign catalog type must not match")
	}

	badAction := addInput("apples")
	badAction.Action = "frobnicate"
	if c.CanHandle(badAction) {
		t.Error("unknown action must not match")
	}

	badTarget := addInput("apples")
	badTarget.Target = "thermostat"
	if c.CanHandle(badTarget) {
		t.Error("unknown target must not match")
	}

	noValues := &input.Input{Action: "add", CatalogType: catalog}
	if c.CanHandle(noValues) {
		t.Error("missing values must fail the guard, not crash")
	}
}

func TestCustomGuardWinsAndDisagreementIsAdvisory(t *testing.T) {
	t.Parallel()
	invoked := false
	custom := func(c *control.Control, in *input.Input) control.Handler {
		if in.Action != "special" {
			return nil
		}
		return func(ctx context.Context, in *input.Input, res *control.Result) error {
			invoked = true
			return nil
		}
	}
	c := newControl(t,
		control.WithRequired(control.Never),
		control.WithCustomGuards(custom),
	)

	// custom no-match falls through to built-ins
	handle(t, c, addInput("apples"))
	if invoked {
		t.Fatal("custom handler must not run for built-in turns")
	}

	// custom match commits the custom handler
	handle(t, c, &input.Input{Action: "special"})
	if !invoked {
		t.Fatal("custom handler should have run")
	}
}

func TestUnusableInputValueWhenCatalogMatchRequired(t *testing.T) {
	t.Parallel()
	c := newControl(t, control.WithRequireCatalogMatch(true))

	in := &input.Input{Action: "add", CatalogType: catalog, Values: []input.ResolvedValue{
		{ID: "bananas", MatchedCatalog: true},
		{ID: "spaceship", MatchedCatalog: false},
	}}
	res := handle(t, c, in)

	var unusable *act.UnusableInputValue
	for _, a := range res.Acts {
		if u, ok := a.(act.UnusableInputValue); ok {
			unusable = &u
		}
	}
	if unusable == nil || unusable.Value != "spaceship" {
		t.Fatalf("expected spaceship reported unusable, acts: %v", res.Acts)
	}
	if got := c.State().ValueIDs(); len(got) != 1 || got[0] != "bananas" {
		t.Errorf("only bananas should be collected, got %v", got)
	}
}

func TestChangeValuesEmitsValueChanged(t *testing.T) {
	t.Parallel()
	c := newControl(t, control.WithConfirmationRequired(control.Never))

	handle(t, c, addInput("apples"))
	change := &input.Input{Action: "change", CatalogType: catalog, Values: []input.ResolvedValue{
		{ID: "carrots", MatchedCatalog: true},
	}}
	res := handle(t, c, change)

	changed, ok := res.Acts[0].(act.ValueChanged)
	if !ok {
		t.Fatalf("expected ValueChanged, got %T", res.Acts[0])
	}
	if len(changed.Previous) != 1 || changed.Previous[0] != "apples" {
		t.Errorf("unexpected previous values: %v", changed.Previous)
	}
	if len(changed.ValueIDs) != 1 || changed.ValueIDs[0] != "carrots" {
		t.Errorf("unexpected new values: %v", changed.ValueIDs)
	}
	if c.State().PreviousValues != nil {
		t.Error("previous-values snapshot must be cleared after the change act")
	}
}

// TestFailedChangeKeepsConfirmedEntries: a change turn with no usable
// values restores the previous entries exactly, including their
// confirmation and validity judgements.
func TestFailedChangeKeepsConfirmedEntries(t *testing.T) {
	t.Parallel()
	c := newControl(t, control.WithRequireCatalogMatch(true))

	handle(t, c, addInput("apples"))
	handle(t, c, &input.Input{Feedback: input.FeedbackAffirm})

	change := &input.Input{Action: "change", CatalogType: catalog, Values: []input.ResolvedValue{
		{ID: "spaceship", MatchedCatalog: false},
	}}
	res := handle(t, c, change)

	if _, ok := res.Acts[0].(act.UnusableInputValue); !ok {
		t.Fatalf("expected UnusableInputValue, got %T", res.Acts[0])
	}
	for _, a := range res.Acts {
		if _, ok := a.(act.ConfirmValue); ok {
			t.Error("an already-confirmed value must not be re-confirmed after a failed change")
		}
	}
	entries := c.State().Values
	if len(entries) != 1 || entries[0].ID != "apples" {
		t.Fatalf("previous entries not restored: %+v", entries)
	}
	if !entries[0].Confirmed {
		t.Error("confirmation lost across the failed change")
	}
}

// TestInvalidInputReelicitsSameTurn: a validation failure is never a bare
// rejection; the request act follows in the same result.
func TestInvalidInputReelicitsSameTurn(t *testing.T) {
	t.Parallel()
	noCarrots := func(s *control.ListState) *validate.Failure {
		for _, e := range s.Values {
			if e.ID == "carrots" {
				return &validate.Failure{FailedValue: "carrots", ReasonCode: "OUT_OF_SEASON"}
			}
		}
		return nil
	}
	c := newControl(t,
		control.WithConfirmationRequired(control.Never),
		control.WithValidators(noCarrots),
	)

	res := handle(t, c, addInput("carrots"))
	if len(res.Acts) < 2 {
		t.Fatalf("expected InvalidValue plus a request act, got %v", res.Acts)
	}
	invalid, ok := res.Acts[0].(act.InvalidValue)
	if !ok {
		t.Fatalf("expected InvalidValue first, got %T", res.Acts[0])
	}
	if invalid.FailedValue != "carrots" || invalid.ReasonCode != "OUT_OF_SEASON" {
		t.Errorf("unexpected failure payload: %+v", invalid)
	}
	if _, ok := res.Acts[1].(act.RequestValue); !ok {
		t.Errorf("expected RequestValue after the rejection, got %T", res.Acts[1])
	}
}

// TestInitiativeConfirmBeatsRepair: when values are both unconfirmed and
// invalid, the confirmation question comes first.
func TestInitiativeConfirmBeatsRepair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rejectEverything := func(s *control.ListState) *validate.Failure {
		if len(s.Values) == 0 {
			return nil
		}
		return &validate.Failure{FailedValue: s.Values[0].ID, ReasonCode: "REJECTED"}
	}
	c := newControl(t, control.WithValidators(rejectEverything))

	handle(t, c, addInput("apples"))
	if !c.CanTakeInitiative(ctx, nil) {
		t.Fatal("expected initiative with unconfirmed invalid values")
	}
	res, err := c.TakeInitiative(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.Acts[0].(act.ConfirmValue); !ok {
		t.Fatalf("confirmation must outrank repair, got %T", res.Acts[0])
	}
}

func TestClearThenElicitRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newControl(t)

	handle(t, c, addInput("apples"))
	c.Clear()
	if c.State().Values != nil {
		t.Fatal("expected the no-value sentinel after Clear")
	}
	if !c.CanTakeInitiative(ctx, nil) {
		t.Fatal("a required control must elicit again after Clear")
	}
	res, err := c.TakeInitiative(ctx, nil)
	if err != nil {
		t.Fatalf("take initiative failed: %v", err)
	}
	if _, ok := res.Acts[0].(act.RequestValue); !ok {
		t.Fatalf("expected RequestValue, got %T", res.Acts[0])
	}
}
