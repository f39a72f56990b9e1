package control

import "context"

// activePage returns the half-open window
// all[pageIndex*pageSize : pageIndex*pageSize+pageSize], clamped to the
// list. Out-of-range indices yield an empty page, not an error.
func activePage(all []string, pageIndex, pageSize int) []string {
	if pageSize <= 0 || pageIndex < 0 {
		return nil
	}
	start := pageIndex * pageSize
	if start >= len(all) {
		return nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// allChoices resolves the full choice list from the static configuration
// or the context-dependent source.
func (c *Control) allChoices(ctx context.Context) ([]string, error) {
	if c.cfg.ChoiceFn != nil {
		return c.cfg.ChoiceFn(ctx)
	}
	return c.cfg.Choices, nil
}

// ActivePage returns the choice window for the current page cursor.
func (c *Control) ActivePage(ctx context.Context) ([]string, error) {
	all, err := c.allChoices(ctx)
	if err != nil {
		return nil, err
	}
	return activePage(all, c.state.PageIndex, c.cfg.PageSize), nil
}

// NextPage advances the page cursor. The tracker never advances on its
// own; paging is driven by the calling layer.
func (c *Control) NextPage() {
	c.state.PageIndex++
}

// PrevPage moves the page cursor back, stopping at the first page.
func (c *Control) PrevPage() {
	if c.state.PageIndex > 0 {
		c.state.PageIndex--
	}
}

// ResetPage moves the cursor back to the first page. Nothing else resets
// it, not even Clear.
func (c *Control) ResetPage() {
	c.state.PageIndex = 0
}
