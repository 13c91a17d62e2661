// Package worker fans invalidation signals out to sinks.
package worker

import (
	"github.com/okian/weekplan/pkg/logger"
)

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithName sets the dispatcher name for identification and logging.
func WithName(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.name = name
		}
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithSinkTimeout bounds a single sink delivery.
func WithSinkTimeout(ms int) Option {
	return func(d *Dispatcher) {
		if ms > 0 {
			d.sinkTimeoutMs = ms
		}
	}
}
