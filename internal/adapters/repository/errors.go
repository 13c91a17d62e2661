package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidQuery = errors.New("invalid query")
	ErrClosed       = errors.New("store closed")
)
