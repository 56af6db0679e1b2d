// Package fetch - browser.go provides headless browser rendering for pages
// that only emit their markup after JavaScript runs.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultRenderWait is how long to let JavaScript settle after navigation.
const DefaultRenderWait = 2 * time.Second

// Browser owns one headless Chrome context. A Browser is exclusively owned by
// a single adapter invocation at a time and must be closed on every exit path.
// Requires Chrome/Chromium to be installed on the system.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewBrowser launches a headless browser context bound to ctx.
func NewBrowser(ctx context.Context, headless bool) (*Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so setup failures surface here, as a
	// single adapter-level error, rather than on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
	}, nil
}

// Close releases the browser context. Safe to call multiple times.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// HTML navigates to url, waits for the page to render, and returns the full
// rendered markup.
func (b *Browser) HTML(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	navCtx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()

	// Respect caller cancellation even though chromedp runs on its own context.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(DefaultRenderWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed for %s: %w", url, err)
	}

	return html, nil
}
