package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// defaultNavTimeout bounds one page render. Sites that have not produced
// their offer list by then contribute nothing for the run.
const defaultNavTimeout = 60 * time.Second

// Browser owns headless page rendering for adapters whose offer lists are
// built client-side. Every session is scoped to a single RenderPage call:
// allocator, tab and timeout are all released via defers on every exit
// path (success, parse failure, timeout), never left to the GC.
type Browser struct {
	navTimeout time.Duration
	// renderFn is swapped in tests to avoid a real Chrome dependency.
	renderFn func(ctx context.Context, url, waitSelector string) (string, error)
}

// NewBrowser returns a Browser with the default navigation timeout.
func NewBrowser() *Browser {
	b := &Browser{navTimeout: defaultNavTimeout}
	b.renderFn = b.render
	return b
}

// RenderPage navigates to url in a fresh headless session, waits for
// waitSelector to become visible, and returns the rendered document HTML.
func (b *Browser) RenderPage(ctx context.Context, url, waitSelector string) (string, error) {
	html, err := b.renderFn(ctx, url, waitSelector)
	if err != nil {
		return "", fmt.Errorf("%w: render %s: %v", ErrTransport, url, err)
	}
	return html, nil
}

func (b *Browser) render(ctx context.Context, url, waitSelector string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.navTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
