package pubsub

import (
	"github.com/okian/weekplan/pkg/logger"
)

// Option applies a configuration option to the Redis bus.
type Option func(*Redis)

// WithChannel sets the pub/sub channel name.
func WithChannel(channel string) Option {
	return func(r *Redis) {
		if channel != "" {
			r.channel = channel
		}
	}
}

// WithOrigin sets the identifier stamped on outgoing messages.
func WithOrigin(origin string) Option {
	return func(r *Redis) {
		if origin != "" {
			r.origin = origin
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Redis) {
		if l != nil {
			r.log = l
		}
	}
}
