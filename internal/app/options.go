package service

import (
	"time"

	"github.com/okian/weekplan/internal/adapters/repository"
	"github.com/okian/weekplan/internal/domain/inflight"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGuard replaces the per-form submission guard.
func WithGuard(g inflight.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithClock sets the reference clock for today's views.
func WithClock(c schedule.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the zone the reference clock is read in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDisplayCap sets how many of today's entries the dashboard shows.
func WithDisplayCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.displayCap = n
		}
	}
}

// WithQueueSize sets the capacity of the invalidation signal queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of signal dispatchers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithRedis enables cross-instance invalidation over Redis.
func WithRedis(addr, channel string) Option {
	return func(s *Service) {
		s.redisAddr = addr
		s.redisChannel = channel
	}
}

// WithRolloverCron sets the schedule of the midnight refresh. Empty disables it.
func WithRolloverCron(spec string) Option {
	return func(s *Service) {
		s.rolloverSpec = spec
	}
}
