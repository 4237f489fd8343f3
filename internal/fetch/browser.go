package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the threshold below which a plain HTTP fetch is
// considered to have missed JavaScript-rendered content.
const MinContentLength = 500

// BrowserTimeout bounds a headless browser fetch.
const BrowserTimeout = 60 * time.Second

// ShouldUseBrowser reports whether a plain fetch result warrants a retry
// with a headless browser. Error pages and thin bodies usually mean the
// posting is rendered client side.
func ShouldUseBrowser(result *Result) bool {
	if result == nil {
		return true
	}
	if result.StatusCode == 403 || result.StatusCode == 429 {
		return true
	}
	return len(result.Text) < MinContentLength
}

// WithBrowser retrieves a URL using headless Chrome, waiting for the page
// to render before extracting text.
func WithBrowser(ctx context.Context, urlStr string) (*Result, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, BrowserTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(urlStr),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser fetch failed", Cause: err}
	}

	result := &Result{
		URL:        urlStr,
		HTML:       html,
		StatusCode: 200,
	}
	result.Text, err = ExtractJobText(html)
	if err != nil {
		return result, err
	}
	return result, nil
}
