package fetcher

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

// waitForPageLoad blocks until body exists and the document reports
// readyState "complete".
func waitForPageLoad() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.WaitReady(`body`, chromedp.ByQuery).Do(ctx); err != nil {
			return err
		}
		return chromedp.Poll(`document.readyState === "complete"`, nil).Do(ctx)
	})
}

// settle gives client-side rendering time to replace placeholder buttons.
func settle(d time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if d <= 0 {
			return nil
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	})
}
