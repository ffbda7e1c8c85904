package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"boardsweep/internal/core"
	"boardsweep/internal/core/config"
	"boardsweep/internal/core/poll"
	"boardsweep/internal/log"
)

// Driver implements core.Driver against a live page. Candidates address
// their row by CSS selector, so every step re-resolves the element; the host
// application re-renders its rows freely and node references from a previous
// render cannot be trusted.
type Driver struct {
	session  *Session
	sel      config.Selectors
	menuWait poll.Config
	confirm  poll.Config
}

var _ core.Driver = (*Driver)(nil)

// NewDriver builds a Driver over an open session. Menu appearance is waited
// on with the poller defaults; confirmation timing comes from the run
// configuration.
func NewDriver(s *Session, sel config.Selectors, run config.Run) *Driver {
	return &Driver{
		session:  s,
		sel:      sel,
		menuWait: poll.Config{},
		confirm: poll.Config{
			Timeout:  run.ConfirmTimeout(),
			Interval: run.ConfirmInterval(),
		},
	}
}

// nodes resolves a selector to its current matches, tolerating zero.
func (d *Driver) nodes(sel string) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	if err := chromedp.Run(d.session.ctx,
		chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	); err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", sel, err)
	}
	return nodes, nil
}

// Gone reports whether the candidate's row no longer exists in the page.
func (d *Driver) Gone(ctx context.Context, c core.Candidate) (bool, error) {
	nodes, err := d.nodes(c.Selector)
	if err != nil {
		return false, err
	}
	return len(nodes) == 0, nil
}

// ScrollIntoView brings the candidate's row into the viewport.
func (d *Driver) ScrollIntoView(ctx context.Context, c core.Candidate) error {
	if err := chromedp.Run(d.session.ctx,
		chromedp.ScrollIntoView(c.Selector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to scroll %s into view: %w", c.RowID, err)
	}
	return nil
}

// RevealMenu clicks the row's menu button and waits for the menu surface to
// appear.
func (d *Driver) RevealMenu(ctx context.Context, c core.Candidate) error {
	buttonSel := c.Selector + " " + d.sel.MenuButton
	buttons, err := d.nodes(buttonSel)
	if err != nil {
		return err
	}
	if len(buttons) == 0 {
		return fmt.Errorf("%w: no menu button under row %s", core.ErrActionFailed, c.RowID)
	}
	if err := chromedp.Run(d.session.ctx, chromedp.MouseClickNode(buttons[0])); err != nil {
		return fmt.Errorf("failed to click menu button for %s: %w", c.RowID, err)
	}

	if _, err := poll.WaitForElement(d.session.ctx, d.menuWait, d.sel.Menu); err != nil {
		return fmt.Errorf("menu for %s never appeared: %w", c.RowID, err)
	}
	return nil
}

// TriggerArchive activates the archive action inside the revealed menu,
// trying each configured fallback selector in order. All of them missing is
// an explicit ActionFailed: the menu is open but carries no archive entry we
// recognize.
func (d *Driver) TriggerArchive(ctx context.Context, c core.Candidate) error {
	logger := log.LoggerFromContext(ctx)
	for _, itemSel := range d.sel.ArchiveItems {
		scoped := d.sel.Menu + " " + itemSel
		items, err := d.nodes(scoped)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			logger.Debug("archive item selector missed",
				slog.String("row", c.RowID), slog.String("selector", scoped))
			continue
		}
		if err := chromedp.Run(d.session.ctx, chromedp.MouseClickNode(items[0])); err != nil {
			return fmt.Errorf("failed to click archive item for %s: %w", c.RowID, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no archive action in menu for row %s (tried %s)",
		core.ErrActionFailed, c.RowID, strings.Join(d.sel.ArchiveItems, ", "))
}

// ConfirmArchived polls until the candidate's row is gone from the page.
func (d *Driver) ConfirmArchived(ctx context.Context, c core.Candidate) error {
	_, err := poll.Until(d.session.ctx, d.confirm, func(ctx context.Context) (struct{}, bool, error) {
		var nodes []*cdp.Node
		if err := chromedp.Run(ctx, chromedp.Nodes(c.Selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, len(nodes) == 0, nil
	})
	if err != nil {
		return fmt.Errorf("row %s still present: %w", c.RowID, err)
	}
	return nil
}
