package stock

import "errors"

var (
	ErrEmptyMarker = errors.New("marker phrase is empty")
	ErrNoMarkers   = errors.New("no markers configured")
	ErrInvalidCode = errors.New("invalid signal code")
)
