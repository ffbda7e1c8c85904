// Package browser owns the Chrome session and implements the UI-driving
// steps of the sweeper against a live page via the DevTools protocol.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// Options controls how the Chrome session is obtained.
type Options struct {
	// AttachURL, when set, attaches to an already-running browser over its
	// DevTools websocket instead of launching one. This is the normal mode
	// for driving an application the user is logged in to.
	AttachURL string
	// ChromePath optionally overrides the Chrome/Chromium executable path
	// when launching. If empty, chromedp looks on PATH / default locations.
	ChromePath string
	// Headless controls whether a launched Chrome runs without a window.
	// Set to false to watch the sweep happen ("headful").
	Headless bool
	// BoardURL is navigated to after launching. Ignored when attaching:
	// the board tab is assumed to be the active one.
	BoardURL string
}

// Session wraps an allocator and a browser context. All page interaction in
// this package runs against Session.ctx, which derives from the context the
// session was created with, so cancelling that context tears the session
// down.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewSession attaches to or launches a browser and, in launch mode,
// navigates to the board. The session is started eagerly so configuration
// problems surface here rather than in the middle of a run.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	s := &Session{}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.AttachURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.AttachURL)
	} else {
		allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		allocatorOpts = append(allocatorOpts,
			chromedp.NoDefaultBrowserCheck,
			chromedp.NoFirstRun,
			chromedp.WindowSize(1920, 1080),
		)
		if opts.ChromePath != "" {
			allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ChromePath))
		}
		if opts.Headless {
			allocatorOpts = append(allocatorOpts, chromedp.Headless)
		} else {
			allocatorOpts = append(allocatorOpts, chromedp.Flag("headless", false))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, allocatorOpts...)
	}
	s.cancels = append(s.cancels, cancelAlloc)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	s.cancels = append(s.cancels, cancelBrowser)
	s.ctx = browserCtx

	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	if opts.AttachURL == "" && strings.TrimSpace(opts.BoardURL) != "" {
		if err := chromedp.Run(browserCtx,
			chromedp.Navigate(opts.BoardURL),
			chromedp.WaitReady("body", chromedp.ByQuery),
		); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open board %s: %w", opts.BoardURL, err)
		}
	}

	return s, nil
}

// Context returns the chromedp browser context for running actions.
func (s *Session) Context() context.Context {
	return s.ctx
}

// HTML captures the final rendered document (outerHTML of <html>).
func (s *Session) HTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture page HTML: %w", err)
	}
	return html, nil
}

// Close tears down the browser context and allocator.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}
