package control

import (
	"context"
	"fmt"

	"github.com/convkit/controls/act"
	"github.com/convkit/controls/validate"
)

// askElicitValue re-validates the current state for the given elicitation
// mode. On success it emits the matching content act; on failure it emits
// InvalidValue followed immediately by the matching request act with the
// current choice window, so invalid input always re-elicits in the same
// turn.
func (c *Control) askElicitValue(ctx context.Context, mode ElicitationMode, res *Result) error {
	c.state.ElicitationMode = mode

	failure := validate.Run(c.state, c.cfg.Validators)
	if failure == nil {
		c.state.markValidity("", true)
		ids := c.state.ValueIDs()
		switch mode {
		case ModeChange:
			if c.state.PreviousValues == nil {
				panic(fmt.Errorf("%w: change elicitation completed without a previous-values snapshot", ErrMissingPreviousValues))
			}
			res.add(act.ValueChanged{
				Previous: c.state.PreviousValues,
				ValueIDs: ids,
				Rendered: c.cfg.RenderValue(ids),
			})
			c.state.PreviousValues = nil
		default:
			res.add(act.ValueSet{
				ValueIDs: ids,
				Rendered: c.cfg.RenderValue(ids),
			})
		}
		c.state.ElicitationMode = ModeNone
		return nil
	}

	c.state.markValidity(failure.FailedValue, false)
	res.add(act.InvalidValue{
		FailedValue:    failure.FailedValue,
		ReasonCode:     failure.ReasonCode,
		RenderedReason: failure.RenderedReason,
	})

	choices, err := c.ActivePage(ctx)
	if err != nil {
		return err
	}
	if mode == ModeChange {
		c.emitInitiative(res, act.RequestChangedValue{
			Choices:  choices,
			Rendered: c.cfg.RenderValue(choices),
		})
	} else {
		c.emitInitiative(res, act.RequestValue{
			Choices:  choices,
			Rendered: c.cfg.RenderValue(choices),
		})
	}
	return nil
}
