// Package capture mints a session-state file by letting an operator pass the
// site's bot check in a visible browser.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fxsheet/internal/browser"
	"fxsheet/internal/session"

	"github.com/go-rod/rod/lib/proto"
)

type Options struct {
	URL        string
	Out        string
	Wait       time.Duration // how long the operator has to interact
	Timeout    time.Duration // navigation budget
	ProxyURL   string
	BrowserBin string

	// Confirm blocks until the operator is done looking at the browser.
	Confirm func()
}

// Run opens the page headed, waits for the operator, then saves the
// browser's cookies to opts.Out.
func Run(ctx context.Context, opts Options) (*session.State, error) {
	b, err := browser.New(browser.Config{
		Headless:   false,
		ProxyURL:   opts.ProxyURL,
		BrowserBin: opts.BrowserBin,
		SlowMotion: 500 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	slog.Info("navigating in visible mode, resolve the captcha and accept cookies if asked", "url", opts.URL)
	p := page.Context(ctx).Timeout(opts.Timeout)
	wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := p.Navigate(opts.URL); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	wait()

	slog.Info("waiting for interaction, make sure the price table is visible", "wait", opts.Wait)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(opts.Wait):
	}

	state, err := b.Session()
	if err != nil {
		return nil, err
	}
	if err := state.Save(opts.Out); err != nil {
		return nil, err
	}
	slog.Info("session saved", "path", opts.Out, "cookies", len(state.Cookies))

	if opts.Confirm != nil {
		opts.Confirm()
	}
	return state, nil
}
