package queue

import "errors"

// Sentinel kinds for enqueue failures. Enqueue reports them through TryEnqueue.
var (
	ErrClosed = errors.New("signal queue closed")
	ErrFull   = errors.New("signal queue full")
)
