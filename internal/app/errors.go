package service

import (
	"errors"
	"fmt"
)

// Sentinel kinds for orchestration errors.
var (
	// ErrStore wraps every failed store call. The cause is logged, never shown.
	ErrStore = errors.New("store operation failed")
	// ErrSubmissionPending rejects a second submit from a form whose first is in flight.
	ErrSubmissionPending = errors.New("submission already pending")
)

func wrapStore(err error) error {
	return fmt.Errorf("%w: %w", ErrStore, err)
}
