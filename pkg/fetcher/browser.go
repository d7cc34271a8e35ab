package fetcher

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/stock"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const bodyTextJS = `document.body ? document.body.innerText : ""`

// BrowserFetcher renders pages in one long-lived Chrome process, opening a
// fresh tab per URL.
type BrowserFetcher struct {
	opts Options

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	closeOnce sync.Once
}

// NewBrowserFetcher launches Chrome. It fails with ErrBrowserUnavailable if
// the browser cannot be started.
func NewBrowserFetcher(opts Options) (*BrowserFetcher, error) {
	opts = opts.withDefaults()
	if opts.SettleDelay == 0 {
		opts.SettleDelay = DefaultSettleDelay
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logger.Sugar.Debugf))

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserUnavailable, err)
	}

	logger.Info("Browser started", zap.Bool("headless", opts.Headless))
	return &BrowserFetcher{
		opts:          opts,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func (f *BrowserFetcher) Name() string {
	return StrategyBrowser
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*stock.Page, error) {
	tabCtx, tabCancel := chromedp.NewContext(f.browserCtx)
	defer tabCancel()
	tabCtx, cancel := context.WithTimeout(tabCtx, f.opts.Timeout+f.opts.SettleDelay)
	defer cancel()

	// tie the tab to the caller's cancellation as well
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var text, html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		waitForPageLoad(),
		settle(f.opts.SettleDelay),
		chromedp.Evaluate(bodyTextJS, &text),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	if strings.TrimSpace(text) == "" && html == "" {
		return nil, ErrEmptyBody
	}

	actions, err := ExtractActions(html)
	if err != nil {
		logger.FromContext(ctx).Debug("Action extraction failed", logger.URLField(url), zap.Error(err))
	}

	logger.FromContext(ctx).Debug("Rendered page",
		logger.URLField(url),
		zap.Int("text_bytes", len(text)),
		zap.Int("actions", len(actions)))

	return &stock.Page{Actions: actions, Text: text}, nil
}

// Close shuts the browser down. It is safe to call more than once.
func (f *BrowserFetcher) Close() error {
	f.closeOnce.Do(func() {
		f.browserCancel()
		f.allocCancel()
	})
	return nil
}
