package monitor

import "errors"

var (
	// ErrNotifyFailed wraps a delivery error. State has already been saved
	// when it is returned.
	ErrNotifyFailed = errors.New("notification delivery failed")

	ErrRunInProgress = errors.New("a run is already in progress")
)
