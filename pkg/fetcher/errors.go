package fetcher

import "errors"

var (
	ErrHTTPStatus         = errors.New("unexpected HTTP status")
	ErrEmptyBody          = errors.New("empty response body")
	ErrBrowserUnavailable = errors.New("browser unavailable")
	ErrUnknownStrategy    = errors.New("unknown fetch strategy")
)
