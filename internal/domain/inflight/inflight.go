// Package inflight tracks form sessions that have a create-or-update
// submission pending, so a second submit from the same session is refused
// until the first settles.
package inflight

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records pending submissions per session.
type Guard interface {
	// Acquire marks session as pending. It returns false if the session
	// already has a pending submission or the guard is full.
	Acquire(ctx context.Context, session string) bool

	// Release clears the pending mark once the store call settles.
	Release(ctx context.Context, session string)

	// Pending reports whether session currently holds the guard.
	Pending(ctx context.Context, session string) bool

	Size() int64
}

type inMemoryGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
	maxSize int // 0 or negative means unbounded
	size    atomic.Int64
}

// NewInMemoryGuard creates a guard with configuration options.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{
		maxSize: 10_000,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.pending = make(map[string]struct{})
	return g
}

func (g *inMemoryGuard) Acquire(_ context.Context, session string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.pending[session]; busy {
		return false
	}
	if g.maxSize > 0 && len(g.pending) >= g.maxSize {
		return false
	}
	g.pending[session] = struct{}{}
	g.size.Add(1)
	return true
}

func (g *inMemoryGuard) Release(_ context.Context, session string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pending[session]; ok {
		delete(g.pending, session)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Pending(_ context.Context, session string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.pending[session]
	return ok
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
