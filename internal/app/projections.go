package service

import (
	"context"
	"sync"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/pkg/metrics"
)

// cell caches one derived view.
//
// invalidate bumps the generation; a load only fills the cell if no
// invalidation happened while it ran, so a read that starts after an
// invalidation always recomputes from post-mutation state.
//
// A failed reload serves the last value loaded for the same key and leaves
// the cell stale, so the next read retries the store.
type cell[T any] struct {
	view invalidation.View
	// onStale is told about every reload failure answered from the old value.
	onStale func(context.Context, invalidation.View, error)

	mu     sync.Mutex
	gen    uint64
	valid  bool
	loaded bool
	key    string
	val    T
}

func (c *cell[T]) invalidate() {
	c.mu.Lock()
	c.gen++
	c.valid = false
	c.mu.Unlock()
}

func (c *cell[T]) fresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid
}

// get returns the cached value for key or loads it. key distinguishes
// clock-dependent results such as the date of a today view.
func (c *cell[T]) get(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if c.valid && c.key == key {
		v := c.val
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err := load(ctx)
	if err != nil {
		return c.lastGood(ctx, key, err)
	}
	metrics.RecordProjectionRebuild(string(c.view))

	c.mu.Lock()
	if c.gen == gen {
		c.val, c.key, c.valid, c.loaded = v, key, true, true
	}
	c.mu.Unlock()
	return v, nil
}

// lastGood answers a failed reload. A today view cached for another date
// is not a substitute, so the key has to match.
func (c *cell[T]) lastGood(ctx context.Context, key string, err error) (T, error) {
	c.mu.Lock()
	v, ok := c.val, c.loaded && c.key == key
	c.mu.Unlock()
	if !ok {
		var zero T
		return zero, err
	}
	metrics.RecordStaleServe(string(c.view))
	if c.onStale != nil {
		c.onStale(ctx, c.view, err)
	}
	return v, nil
}

func (c *cell[T]) name() invalidation.View { return c.view }

type viewCell interface {
	invalidate()
	fresh() bool
	name() invalidation.View
}

// projections holds one cell per view and follows the registry.
type projections struct {
	cells map[invalidation.View]viewCell
}

func newProjections(cells ...viewCell) *projections {
	p := &projections{cells: make(map[invalidation.View]viewCell, len(cells))}
	for _, c := range cells {
		p.cells[c.name()] = c
	}
	return p
}

// handle is the registry handler: it marks every named view stale.
func (p *projections) handle(_ context.Context, s invalidation.Signal) {
	for _, v := range s.Views {
		if c, ok := p.cells[v]; ok {
			c.invalidate()
			metrics.RecordInvalidation(string(v))
		}
	}
}

// Fresh reports which views currently hold a cached value.
func (p *projections) Fresh() map[invalidation.View]bool {
	out := make(map[invalidation.View]bool, len(p.cells))
	for v, c := range p.cells {
		out[v] = c.fresh()
	}
	return out
}
