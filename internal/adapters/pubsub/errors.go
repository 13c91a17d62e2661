package pubsub

import "errors"

// Sentinel kinds for pub/sub errors.
var (
	ErrConnect = errors.New("redis unreachable")
	ErrDecode  = errors.New("malformed invalidation message")
)
