package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/convkit/controls/act"
	"github.com/convkit/controls/input"
	"github.com/convkit/controls/validate"
)

type initiativeFunc func(ctx context.Context, in *input.Input, res *Result) error

// CanTakeInitiative evaluates the initiative states in strict priority
// order and selects the first that applies: confirm an unconfirmed value,
// repair an invalid one, then elicit a missing one. The ordering is the
// core business rule and must not change. Re-entering the same state on a
// later turn re-runs validation rather than assuming prior validity.
func (c *Control) CanTakeInitiative(ctx context.Context, in *input.Input) bool {
	c.pendingInitiative = nil
	switch {
	case c.wantsToConfirm(ctx, in):
		c.pendingInitiative = c.initiativeConfirm
	case c.wantsToFixInvalid():
		c.pendingInitiative = c.initiativeFixInvalid
	case c.wantsToElicit(ctx, in):
		c.pendingInitiative = c.initiativeElicit
	}
	if c.pendingInitiative != nil {
		slog.Debug("initiative selected", "catalog", c.cfg.CatalogType)
	}
	return c.pendingInitiative != nil
}

// TakeInitiative runs the initiative selected by the last successful
// CanTakeInitiative. Calling it without one is a fatal usage error.
func (c *Control) TakeInitiative(ctx context.Context, in *input.Input) (*Result, error) {
	res := &Result{}
	if err := c.takeInitiativeInto(ctx, in, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Control) takeInitiativeInto(ctx context.Context, in *input.Input, res *Result) error {
	if c.pendingInitiative == nil {
		panic(fmt.Errorf("%w: TakeInitiative invoked without a successful CanTakeInitiative", ErrInitiativeNotAllowed))
	}
	initiative := c.pendingInitiative
	c.pendingInitiative = nil
	return initiative(ctx, in, res)
}

func (c *Control) wantsToConfirm(ctx context.Context, in *input.Input) bool {
	if len(c.state.Values) == 0 {
		return false
	}
	if len(c.state.unconfirmedIDs()) == 0 {
		return false
	}
	return c.cfg.ConfirmationRequired(ctx, in)
}

func (c *Control) wantsToFixInvalid() bool {
	if c.state.Values == nil {
		return false
	}
	return validate.Run(c.state, c.cfg.Validators) != nil
}

func (c *Control) wantsToElicit(ctx context.Context, in *input.Input) bool {
	if len(c.state.Values) > 0 {
		return false
	}
	return c.cfg.Required(ctx, in)
}

func (c *Control) initiativeConfirm(ctx context.Context, in *input.Input, res *Result) error {
	ids := c.state.unconfirmedIDs()
	c.emitInitiative(res, act.ConfirmValue{
		ValueIDs: ids,
		Rendered: c.cfg.RenderValue(ids),
	})
	return nil
}

func (c *Control) initiativeFixInvalid(ctx context.Context, in *input.Input, res *Result) error {
	return c.askElicitValue(ctx, ModeChange, res)
}

func (c *Control) initiativeElicit(ctx context.Context, in *input.Input, res *Result) error {
	c.state.ElicitationMode = ModeSet
	choices, err := c.ActivePage(ctx)
	if err != nil {
		return err
	}
	c.emitInitiative(res, act.RequestValue{
		Choices:  choices,
		Rendered: c.cfg.RenderValue(choices),
	})
	return nil
}
