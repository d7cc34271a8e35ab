package state

import "errors"

// ErrMalformedLine is returned by a strict FileStore for a line that does
// not parse as key, signal code and optional flag.
var ErrMalformedLine = errors.New("malformed state line")
