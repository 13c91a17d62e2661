package invalidation

import (
	"context"
	"sync"
)

// Handler reacts to a signal. Handlers run synchronously inside Publish
// and must not block.
type Handler func(ctx context.Context, s Signal)

// Registry is an observer registry keyed by view.
type Registry struct {
	mu     sync.RWMutex
	nextID int
	byView map[View]map[int]Handler
	any    map[int]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byView: make(map[View]map[int]Handler),
		any:    make(map[int]Handler),
	}
}

// Subscribe registers h for signals naming any of views. With no views,
// h receives every signal. The returned func removes the subscription.
func (r *Registry) Subscribe(h Handler, views ...View) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if len(views) == 0 {
		r.any[id] = h
	} else {
		for _, v := range views {
			if r.byView[v] == nil {
				r.byView[v] = make(map[int]Handler)
			}
			r.byView[v][id] = h
		}
	}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.any, id)
		for _, v := range views {
			delete(r.byView[v], id)
		}
	}
}

// Publish delivers s once to each subscriber interested in at least one
// of its views. It returns the number of handlers invoked.
func (r *Registry) Publish(ctx context.Context, s Signal) int {
	r.mu.RLock()
	targets := make(map[int]Handler)
	for _, v := range s.Views {
		for id, h := range r.byView[v] {
			targets[id] = h
		}
	}
	for id, h := range r.any {
		targets[id] = h
	}
	r.mu.RUnlock()

	for _, h := range targets {
		h(ctx, s)
	}
	return len(targets)
}
