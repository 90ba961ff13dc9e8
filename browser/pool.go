// Package browser fetches pages through pooled headless Chrome tabs, for
// the cases where Yahoo answers a plain HTTP client with a consent wall
// or thin markup. It is the optional fallback behind the HTTP fetcher and
// stays cold until the first fetch.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"yahooscraper/fetch"
)

// Pool is a fixed-size pool of browser tabs. It satisfies fetch.Fetcher.
type Pool struct {
	size    int
	timeout time.Duration

	initOnce sync.Once
	initErr  error

	allocCancel context.CancelFunc
	tabs        chan tab
}

type tab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool sizes a pool. Each fetch gets at most timeout to render its
// page. The browser process does not start until the first Fetch call.
func NewPool(size int, timeout time.Duration) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size, timeout: timeout, tabs: make(chan tab, size)}
}

func (p *Pool) init() {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(fetch.DefaultUserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	p.allocCancel = allocCancel

	for i := 0; i < p.size; i++ {
		tabCtx, tabCancel := chromedp.NewContext(allocCtx)
		// The first navigation forces the tab's browser process to start,
		// surfacing a missing Chrome install here instead of mid-scrape.
		if err := chromedp.Run(tabCtx, chromedp.Navigate("about:blank")); err != nil {
			tabCancel()
			p.initErr = fmt.Errorf("failed to start browser tab: %v", err)
			return
		}
		p.tabs <- tab{ctx: tabCtx, cancel: tabCancel}
	}
}

// Fetch renders url in a pooled tab and returns the page's HTML.
func (p *Pool) Fetch(ctx context.Context, url string) ([]byte, error) {
	p.initOnce.Do(p.init)
	if p.initErr != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrNetwork, p.initErr)
	}

	var t tab
	select {
	case t = <-p.tabs:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for a browser tab: %v", fetch.ErrNetwork, ctx.Err())
	}
	defer p.release(t)

	runCtx, cancel := context.WithTimeout(t.ctx, p.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		// Let the page's scripts fill in the data-test containers.
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to render %s: %v", fetch.ErrNetwork, url, err)
	}
	return []byte(html), nil
}

// release wipes tab state so sessions do not leak between fetches, then
// returns the tab to the pool.
func (p *Pool) release(t tab) {
	cleanCtx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	_ = chromedp.Run(cleanCtx,
		network.ClearBrowserCookies(),
		chromedp.Navigate("about:blank"),
	)
	p.tabs <- t
}

// Shutdown closes every idle tab and the browser behind them. Tabs still
// serving a fetch are closed when their run context ends.
func (p *Pool) Shutdown() {
	p.initOnce.Do(func() {})
	for {
		select {
		case t := <-p.tabs:
			t.cancel()
		default:
			if p.allocCancel != nil {
				p.allocCancel()
			}
			return
		}
	}
}
