package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserClient renders match pages in headless Chrome. It is used when the
// site only serves its tables to clients that run its scripts.
type BrowserClient struct {
	baseURL     string
	settle      time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewBrowserClient starts a Chrome allocator. settle is how long a page is
// given to run its scripts after the body is ready.
func NewBrowserClient(baseURL, userAgent string, settle time.Duration) *BrowserClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserClient{
		baseURL:     baseURL,
		settle:      settle,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
}

// Get opens path in a new tab and returns the rendered markup. The tab is
// closed when ctx is done.
func (b *BrowserClient) Get(ctx context.Context, path string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	actions := []chromedp.Action{
		chromedp.Navigate(b.baseURL + path),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if b.settle > 0 {
		actions = append(actions, chromedp.Sleep(b.settle))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("browser GET %s: %w", path, ctxErr)
		}
		return nil, fmt.Errorf("browser GET %s: %w", path, err)
	}
	return []byte(html), nil
}

// Close shuts the browser down.
func (b *BrowserClient) Close() {
	b.allocCancel()
}
