package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome. Use it for storefronts that
// build their product markup with JavaScript. Requires Chrome/Chromium.
type BrowserFetcher struct {
	timeout time.Duration
	settle  time.Duration
}

// NewBrowserFetcher creates a browser fetcher bounded by timeout.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserFetcher{timeout: timeout, settle: 2 * time.Second}
}

// Fetch navigates to rawURL and returns the rendered outer HTML.
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*RawContent, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, b.timeout)
	defer cancelTimeout()

	var html string
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(parsed.String()),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "browser rendering failed", Cause: err}
	}

	return &RawContent{
		URL:         parsed,
		HTML:        html,
		ContentType: "text/html",
		StatusCode:  200,
		FetchedAt:   time.Now(),
	}, nil
}

// Ensure BrowserFetcher satisfies Fetcher.
var _ Fetcher = (*BrowserFetcher)(nil)

// String is used in log fields.
func (b *BrowserFetcher) String() string {
	return fmt.Sprintf("browser(timeout=%s)", b.timeout)
}
