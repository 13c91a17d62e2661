// Package queue buffers invalidation signals between the orchestrator and the dispatchers.
//
// Enqueue never blocks: a full or closed queue drops the signal and counts
// the drop. Consumers read from Dequeue until Close.
package queue

import (
	"context"
	"sync"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Signal is the payload flowing through the queue.
type Signal = invalidation.Signal

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a signal. Returns false if it was dropped.
	Enqueue(ctx context.Context, s Signal) bool

	// Dequeue returns a channel that receives signals until the queue is closed.
	Dequeue(ctx context.Context) <-chan Signal

	// Len returns the current number of queued signals.
	Len(ctx context.Context) int

	// Close stops accepting signals and closes the dequeue channel.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	signals  chan Signal
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.signals = make(chan Signal, q.capacity)

	metrics.UpdateSignalQueueCapacity(q.capacity)
	metrics.UpdateSignalQueueSize(0)
	return q
}

// Enqueue adds a signal to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Signal) bool {
	return q.TryEnqueue(ctx, s) == nil
}

// TryEnqueue is Enqueue reporting why a signal was dropped.
func (q *InMemoryQueue) TryEnqueue(ctx context.Context, s Signal) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordSignalDropped("closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordSignalDropped("context_cancelled")
		return err
	}

	select {
	case q.signals <- s:
		metrics.RecordSignalEnqueued()
		metrics.UpdateSignalQueueSize(len(q.signals))
		return nil
	default:
		metrics.RecordSignalDropped("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive signals as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Signal {
	out := make(chan Signal)
	go func() {
		defer close(out)
		for s := range q.signals {
			select {
			case out <- s:
				metrics.UpdateSignalQueueSize(len(q.signals))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued signals.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.signals)
	metrics.UpdateSignalQueueSize(size)
	return size
}

// Close gracefully shuts down the queue. Buffered signals are still delivered.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.signals)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
