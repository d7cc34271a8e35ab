package fetcher

import (
	"context"
	"fmt"

	"restockwatch/pkg/logger"
	"restockwatch/pkg/stock"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPFetcher performs a single GET per URL. The whole raw HTML is the page
// text, so markers inside scripts and attributes count as well.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a static fetcher.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	opts = opts.withDefaults()

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept-Language", opts.AcceptLanguage).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Name() string {
	return StrategyStatic
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*stock.Page, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode())
	}

	body := resp.String()
	if body == "" {
		return nil, ErrEmptyBody
	}

	actions, err := ExtractActions(body)
	if err != nil {
		// the raw text is still usable for the page scope
		logger.FromContext(ctx).Debug("Action extraction failed", logger.URLField(url), zap.Error(err))
	}

	logger.FromContext(ctx).Debug("Fetched page",
		logger.URLField(url),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(body)),
		zap.Int("actions", len(actions)),
		logger.DurationField(resp.Time().Milliseconds()))

	return &stock.Page{Actions: actions, Text: body}, nil
}

func (f *HTTPFetcher) Close() error {
	return nil
}
