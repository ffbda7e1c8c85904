package poll

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// WaitForElement polls until at least one element matching sel exists in the
// page behind ctx (which must be a chromedp context). Extra query options can
// scope the lookup, e.g. chromedp.FromNode to search under a subtree.
//
// On success the returned node is never nil; if the generic engine somehow
// resolves without one, the call is reported as a timeout rather than handing
// the caller an empty success.
func WaitForElement(ctx context.Context, cfg Config, sel string, opts ...chromedp.QueryOption) (*cdp.Node, error) {
	opts = append(opts, chromedp.AtLeast(0))
	node, err := Until(ctx, cfg, func(ctx context.Context) (*cdp.Node, bool, error) {
		var nodes []*cdp.Node
		if err := chromedp.Run(ctx, chromedp.Nodes(sel, &nodes, opts...)); err != nil {
			return nil, false, err
		}
		if len(nodes) == 0 {
			return nil, false, nil
		}
		return nodes[0], true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for %q: %w", sel, err)
	}
	if node == nil {
		return nil, fmt.Errorf("waiting for %q: %w", sel, ErrTimeout)
	}
	return node, nil
}
