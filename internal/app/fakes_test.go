package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/okian/weekplan/internal/adapters/repository"
	"github.com/okian/weekplan/internal/domain/model"
)

var errBackend = errors.New("connection reset by peer")

// flakyCollection wraps a real collection, counts calls and can fail or block writes.
type flakyCollection[T repository.Record[T]] struct {
	repository.Collection[T]

	failWrites atomic.Bool
	failReads  atomic.Bool
	lists      atomic.Int32
	writes     atomic.Int32

	mu      sync.Mutex
	block   chan struct{} // writes wait on it when non-nil
	entered chan struct{}
}

func (f *flakyCollection[T]) hold() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.block = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	b := f.block
	return func() { close(b) }
}

func (f *flakyCollection[T]) waitEntered() {
	f.mu.Lock()
	ch := f.entered
	f.mu.Unlock()
	<-ch
}

func (f *flakyCollection[T]) gate() error {
	f.writes.Add(1)
	f.mu.Lock()
	b, e := f.block, f.entered
	f.mu.Unlock()
	if b != nil {
		e <- struct{}{}
		<-b
	}
	if f.failWrites.Load() {
		return errBackend
	}
	return nil
}

func (f *flakyCollection[T]) List(ctx context.Context, q repository.Query) ([]T, error) {
	f.lists.Add(1)
	if f.failReads.Load() {
		return nil, errBackend
	}
	return f.Collection.List(ctx, q)
}

func (f *flakyCollection[T]) Insert(ctx context.Context, rec T) (string, error) {
	if err := f.gate(); err != nil {
		return "", err
	}
	return f.Collection.Insert(ctx, rec)
}

func (f *flakyCollection[T]) Update(ctx context.Context, id string, rec T) error {
	if err := f.gate(); err != nil {
		return err
	}
	return f.Collection.Update(ctx, id, rec)
}

func (f *flakyCollection[T]) Delete(ctx context.Context, id string) error {
	if err := f.gate(); err != nil {
		return err
	}
	return f.Collection.Delete(ctx, id)
}

type flakyStore struct {
	classes *flakyCollection[model.ClassEntry]
	events  *flakyCollection[model.EventEntry]
}

func newFlakyStore() *flakyStore {
	mem := repository.NewMemoryStore()
	return &flakyStore{
		classes: &flakyCollection[model.ClassEntry]{Collection: mem.Classes()},
		events:  &flakyCollection[model.EventEntry]{Collection: mem.Events()},
	}
}

func (s *flakyStore) Classes() repository.ClassStore { return s.classes }
func (s *flakyStore) Events() repository.EventStore  { return s.events }
func (s *flakyStore) Close() error                   { return nil }
