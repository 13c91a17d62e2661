package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/pkg/metrics"
)

// MemoryStore keeps both collections in process memory.
//
// Writers serialize on a per-collection mutex and publish an immutable
// snapshot; readers work from the snapshot without locking.
type MemoryStore struct {
	classes *memCollection[model.ClassEntry]
	events  *memCollection[model.EventEntry]
	newID   func() string
	closed  atomic.Bool
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	s.classes = newMemCollection[model.ClassEntry](CollectionClasses, s)
	s.events = newMemCollection[model.EventEntry](CollectionEvents, s)
	return s
}

// Classes returns the classes collection.
func (s *MemoryStore) Classes() ClassStore { return s.classes }

// Events returns the events collection.
func (s *MemoryStore) Events() EventStore { return s.events }

// Close rejects further calls.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}

type memCollection[T Record[T]] struct {
	name  string
	owner *MemoryStore

	mu   sync.RWMutex
	byID map[string]int // index into rows
	rows []T            // insertion order

	// snapshot is the immutable row set published after every write.
	snapshot atomic.Pointer[[]T]
}

func newMemCollection[T Record[T]](name string, owner *MemoryStore) *memCollection[T] {
	c := &memCollection[T]{name: name, owner: owner, byID: make(map[string]int)}
	empty := []T{}
	c.snapshot.Store(&empty)
	return c
}

func (c *memCollection[T]) observe(op string, start time.Time, err *error) {
	metrics.RecordStoreLatency(c.name, op, float64(time.Since(start).Microseconds())/1000)
	if *err != nil {
		metrics.RecordStoreError(c.name, op)
	}
}

func (c *memCollection[T]) check(ctx context.Context) error {
	if c.owner.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// List filters and sorts a copy of the current snapshot.
func (c *memCollection[T]) List(ctx context.Context, q Query) (_ []T, err error) {
	defer c.observe("list", time.Now(), &err)
	if err = c.check(ctx); err != nil {
		return nil, err
	}
	if err = validate[T](q); err != nil {
		return nil, err
	}

	rows := *c.snapshot.Load()
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if q.matches(r) {
			out = append(out, r)
		}
	}
	if len(q.OrderBy) > 0 {
		slices.SortStableFunc(out, func(a, b T) int { return compare(q, a, b) })
	}
	return out, nil
}

func (c *memCollection[T]) Get(ctx context.Context, id string) (_ T, err error) {
	defer c.observe("get", time.Now(), &err)
	var zero T
	if err = c.check(ctx); err != nil {
		return zero, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return zero, fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	return c.rows[i], nil
}

func (c *memCollection[T]) Insert(ctx context.Context, rec T) (_ string, err error) {
	defer c.observe("insert", time.Now(), &err)
	if err = c.check(ctx); err != nil {
		return "", err
	}
	id := c.owner.newID()

	c.mu.Lock()
	if _, dup := c.byID[id]; dup {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: duplicate id %s", ErrInvalidQuery, id)
	}
	c.byID[id] = len(c.rows)
	c.rows = append(c.rows, rec.WithID(id))
	n := c.publishLocked()
	c.mu.Unlock()

	metrics.UpdateRecordsTotal(c.name, n)
	return id, nil
}

func (c *memCollection[T]) Update(ctx context.Context, id string, rec T) (err error) {
	defer c.observe("update", time.Now(), &err)
	if err = c.check(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	c.rows[i] = rec.WithID(id)
	c.publishLocked()
	return nil
}

func (c *memCollection[T]) Delete(ctx context.Context, id string) (err error) {
	defer c.observe("delete", time.Now(), &err)
	if err = c.check(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	i, ok := c.byID[id]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s %s", ErrNotFound, c.name, id)
	}
	c.rows = slices.Delete(c.rows, i, i+1)
	delete(c.byID, id)
	for j := i; j < len(c.rows); j++ {
		c.byID[c.rows[j].Key()] = j
	}
	n := c.publishLocked()
	c.mu.Unlock()

	metrics.UpdateRecordsTotal(c.name, n)
	return nil
}

func (c *memCollection[T]) Count(ctx context.Context) (int, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	return len(*c.snapshot.Load()), nil
}

// publishLocked stores a copy of rows as the new snapshot (assumes mu is held).
func (c *memCollection[T]) publishLocked() int {
	snap := slices.Clone(c.rows)
	if snap == nil {
		snap = []T{}
	}
	c.snapshot.Store(&snap)
	return len(snap)
}
