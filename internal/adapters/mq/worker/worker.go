// Package worker fans invalidation signals out to sinks.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/okian/weekplan/pkg/metrics"
)

const (
	defaultSinkTimeoutMs = 2000
	poolShutdownTimeout  = 10 * time.Second
)

// Sink receives dispatched signals. Deliver must honour ctx.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, s invalidation.Signal) error
}

// Queue defines how dispatchers receive signals.
type Queue interface {
	Dequeue(ctx context.Context) <-chan invalidation.Signal
}

// Worker is a long-running consumer.
type Worker interface {
	// Run starts the loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the loop to exit.
	Shutdown(ctx context.Context) error
}

// Dispatcher delivers each dequeued signal to every sink in order.
// A failing sink is logged and counted; it never stops the others.
type Dispatcher struct {
	queue         Queue
	sinks         []Sink
	name          string
	sinkTimeoutMs int
	delivered     atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewDispatcher creates a dispatcher reading q and writing to sinks.
func NewDispatcher(q Queue, sinks []Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:         q,
		sinks:         sinks,
		name:          "dispatcher",
		sinkTimeoutMs: defaultSinkTimeoutMs,
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger.Get().Named("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name != "dispatcher" {
		d.logger = d.logger.Named(d.name)
	}
	return d
}

// Run starts the dispatch loop.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	signals := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case s, ok := <-signals:
			if !ok {
				return
			}
			d.dispatch(ctx, s)
		}
	}
}

// Shutdown gracefully stops the dispatcher.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	select {
	case <-d.shutdown:
	default:
		close(d.shutdown)
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Delivered returns the number of successful sink deliveries.
func (d *Dispatcher) Delivered() int64 { return d.delivered.Load() }

func (d *Dispatcher) dispatch(ctx context.Context, s invalidation.Signal) {
	for _, sink := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, time.Duration(d.sinkTimeoutMs)*time.Millisecond)
		err := sink.Deliver(sctx, s)
		cancel()
		if err != nil {
			metrics.RecordSignalDelivered(sink.Name(), "error")
			d.logger.Error(ctx, "sink delivery failed",
				logger.String("sink", sink.Name()),
				logger.String("collection", string(s.Collection)),
				logger.String("op", string(s.Op)),
				logger.Error(err),
			)
			continue
		}
		d.delivered.Add(1)
		metrics.RecordSignalDelivered(sink.Name(), "ok")
	}
}

// Pool manages multiple dispatchers over one queue.
type Pool struct {
	dispatchers []*Dispatcher
	queue       Queue
	logger      logger.Logger
}

// NewPool creates count dispatchers sharing q and sinks.
func NewPool(count int, q Queue, sinks []Sink, opts ...Option) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		dispatchers: make([]*Dispatcher, count),
		queue:       q,
		logger:      logger.Get().Named("dispatch-pool"),
	}
	for i := 0; i < count; i++ {
		o := append([]Option{WithName("dispatcher-" + strconv.Itoa(i))}, opts...)
		p.dispatchers[i] = NewDispatcher(q, sinks, o...)
	}
	metrics.UpdateDispatchWorkers(count)
	return p
}

// Start starts all dispatchers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, d := range p.dispatchers {
		go d.Run(ctx)
	}
}

// Delivered sums successful deliveries across the pool.
func (p *Pool) Delivered() int64 {
	var n int64
	for _, d := range p.dispatchers {
		n += d.Delivered()
	}
	return n
}

// Size returns the number of dispatchers.
func (p *Pool) Size() int { return len(p.dispatchers) }

// Shutdown closes the queue so buffered signals drain, then waits for every dispatcher.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, d := range p.dispatchers {
		select {
		case <-d.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "dispatcher shutdown timed out", logger.Int("dispatcher_id", i))
		}
	}
	metrics.UpdateDispatchWorkers(0)
	return nil
}

// LogSink writes each signal to the structured log.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a sink logging at debug level.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.Get().Named("invalidation")
	}
	return &LogSink{log: l}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Deliver implements Sink.
func (s *LogSink) Deliver(ctx context.Context, sig invalidation.Signal) error {
	views := make([]string, len(sig.Views))
	for i, v := range sig.Views {
		views[i] = string(v)
	}
	s.log.Debug(ctx, "views invalidated",
		logger.String("collection", string(sig.Collection)),
		logger.String("op", string(sig.Op)),
		logger.String("record_id", sig.RecordID),
		logger.Strings("views", views),
	)
	return nil
}
