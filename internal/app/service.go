// Package service is the planner's application layer: the mutation
// orchestrator, the cached read projections and the day rollover.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/weekplan/internal/adapters/mq/queue"
	"github.com/okian/weekplan/internal/adapters/mq/worker"
	"github.com/okian/weekplan/internal/adapters/pubsub"
	"github.com/okian/weekplan/internal/adapters/repository"
	"github.com/okian/weekplan/internal/domain/inflight"
	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/robfig/cron/v3"
)

const defaultDisplayCap = 5

// Service implements the API dependencies for the planner.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	registry *invalidation.Registry
	guard    inflight.Guard
	signals  *queue.InMemoryQueue
	pool     *worker.Pool
	bus      *pubsub.Redis
	cron     *cron.Cron

	// Projections
	views        *projections
	classList    *cell[[]model.ClassEntry]
	eventList    *cell[[]model.EventEntry]
	todayClasses *cell[[]model.ClassEntry]
	todayEvents  *cell[[]model.EventEntry]
	classCount   *cell[int]
	eventCount   *cell[int]

	// Configuration
	clock        schedule.Clock
	loc          *time.Location
	displayCap   int
	queueSize    int
	workerCount  int
	redisAddr    string
	redisChannel string
	rolloverSpec string

	// State
	started bool
	cancel  context.CancelFunc
	bg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a Service. Mutations and reads work before Start;
// Start only launches the background fan-out and the rollover job.
func New(opts ...Option) *Service {
	s := &Service{
		registry:     invalidation.NewRegistry(),
		clock:        schedule.SystemClock,
		loc:          time.Local,
		displayCap:   defaultDisplayCap,
		queueSize:    1024,
		workerCount:  max(2, runtime.NumCPU()/2),
		rolloverSpec: "0 0 * * *",
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.guard == nil {
		s.guard = inflight.NewInMemoryGuard()
	}

	s.classList = &cell[[]model.ClassEntry]{view: invalidation.ClassList, onStale: s.servedStale}
	s.eventList = &cell[[]model.EventEntry]{view: invalidation.EventList, onStale: s.servedStale}
	s.todayClasses = &cell[[]model.ClassEntry]{view: invalidation.TodayClasses, onStale: s.servedStale}
	s.todayEvents = &cell[[]model.EventEntry]{view: invalidation.TodayEvents, onStale: s.servedStale}
	s.classCount = &cell[int]{view: invalidation.ClassCount, onStale: s.servedStale}
	s.eventCount = &cell[int]{view: invalidation.EventCount, onStale: s.servedStale}
	s.views = newProjections(s.classList, s.eventList, s.todayClasses, s.todayEvents, s.classCount, s.eventCount)
	s.registry.Subscribe(s.views.handle)

	s.signals = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	return s
}

// Start launches the dispatchers, the optional Redis relay and the rollover job.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting planner service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	if s.rolloverSpec != "" {
		c, err := s.scheduleRollover(runCtx)
		if err != nil {
			cancel()
			return err
		}
		s.cron = c
	}

	sinks := []worker.Sink{worker.NewLogSink(s.logger.Named("invalidation"))}
	if s.redisAddr != "" {
		bus, err := pubsub.NewRedis(ctx, s.redisAddr,
			pubsub.WithChannel(s.redisChannel),
			pubsub.WithLogger(s.logger.Named("pubsub")),
		)
		if err != nil {
			cancel()
			return err
		}
		s.bus = bus
		sinks = append(sinks, bus)

		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if err := bus.Listen(runCtx, s.applyRemote); err != nil {
				s.logger.Error(runCtx, "redis relay stopped", logger.Error(err))
			}
		}()
	}

	s.pool = worker.NewPool(s.workerCount, s.signals, sinks)
	s.pool.Start(runCtx)
	if s.cron != nil {
		s.cron.Start()
	}

	s.cancel = cancel
	s.started = true
	s.logger.Info(ctx, "planner service started",
		logger.Int("dispatchers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("redis", s.bus != nil),
		logger.String("timezone", s.loc.String()),
	)
	return nil
}

// Stop gracefully shuts down the service and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.Background()
	if s.started {
		s.logger.Info(ctx, "stopping planner service...")
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}
		if s.pool != nil {
			_ = s.pool.Shutdown(ctx)
		}
		s.cancel()
		s.bg.Wait()
		if s.bus != nil {
			_ = s.bus.Close()
		}
		s.started = false
	} else {
		_ = s.signals.Close()
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "error closing store", logger.Error(err))
	}
	s.logger.Info(ctx, "planner service stopped")
}

// Subscribe registers h for invalidation signals naming any of views.
func (s *Service) Subscribe(h invalidation.Handler, views ...invalidation.View) func() {
	return s.registry.Subscribe(h, views...)
}

// now is the reference instant in the configured zone.
func (s *Service) now() time.Time {
	return s.clock.In(s.loc)()
}

// applyRemote marks views stale for a mutation made by another instance.
// The signal is not re-queued, so it never echoes back onto the bus.
func (s *Service) applyRemote(ctx context.Context, sig invalidation.Signal) {
	s.logger.Debug(ctx, "remote invalidation",
		logger.String("collection", string(sig.Collection)),
		logger.String("op", string(sig.Op)),
	)
	s.registry.Publish(ctx, sig)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":      s.started,
		"dispatchers":  s.workerCount,
		"queueSize":    s.queueSize,
		"queueLength":  s.signals.Len(ctx),
		"pendingForms": s.guard.Size(),
		"displayCap":   s.displayCap,
		"timezone":     s.loc.String(),
		"redis":        s.bus != nil,
	}
	fresh := make(map[string]bool)
	for v, ok := range s.views.Fresh() {
		fresh[string(v)] = ok
	}
	stats["freshViews"] = fresh

	if s.pool != nil {
		stats["delivered"] = s.pool.Delivered()
	}
	if n, err := s.store.Classes().Count(ctx); err == nil {
		stats["classes"] = n
	}
	if n, err := s.store.Events().Count(ctx); err == nil {
		stats["events"] = n
	}
	return stats
}
