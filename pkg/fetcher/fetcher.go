// Package fetcher retrieves product pages either with a plain HTTP GET or
// through a headless Chrome instance.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"restockwatch/pkg/stock"
)

const (
	StrategyStatic  = "static"
	StrategyBrowser = "browser"

	// DefaultUserAgent is a mobile Safari UA. Some storefronts serve a
	// lighter page to it.
	DefaultUserAgent      = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultTimeout        = 30 * time.Second
	DefaultSettleDelay    = 3 * time.Second
)

// Fetcher returns the classifier input for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*stock.Page, error)
	Name() string
	Close() error
}

// Options configures both strategies. Zero values fall back to defaults.
type Options struct {
	Strategy       string
	Timeout        time.Duration
	SettleDelay    time.Duration
	UserAgent      string
	AcceptLanguage string
	ChromePath     string
	Headless       bool
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.AcceptLanguage == "" {
		o.AcceptLanguage = DefaultAcceptLanguage
	}
	return o
}

// New builds the fetcher selected by opts.Strategy.
func New(opts Options) (Fetcher, error) {
	switch opts.Strategy {
	case "", StrategyStatic:
		return NewHTTPFetcher(opts), nil
	case StrategyBrowser:
		return NewBrowserFetcher(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, opts.Strategy)
	}
}
