// Package repository defines the record store contract and its backends.
package repository

import (
	"context"

	"github.com/okian/weekplan/internal/domain/model"
)

// Record is implemented by every persisted entry type.
type Record[T any] interface {
	Key() string
	WithID(id string) T
	Lookup(f model.Field) (*string, bool)
}

// Collection provides read/write access to one persisted collection.
type Collection[T Record[T]] interface {
	// List returns the records matching q, ordered as q asks.
	List(ctx context.Context, q Query) ([]T, error)

	// Get returns one record. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (T, error)

	// Insert stores rec under a new identifier and returns it.
	Insert(ctx context.Context, rec T) (string, error)

	// Update replaces every field of the record with rec.
	// Returns ErrNotFound if the id is unknown.
	Update(ctx context.Context, id string, rec T) error

	// Delete removes the record. Returns ErrNotFound if the id is unknown.
	Delete(ctx context.Context, id string) error

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}

// ClassStore is the `classes` collection.
type ClassStore = Collection[model.ClassEntry]

// EventStore is the `events` collection.
type EventStore = Collection[model.EventEntry]

// Store groups both collections behind one backend.
type Store interface {
	Classes() ClassStore
	Events() EventStore
	Close() error
}

// Collection names, used as metric labels.
const (
	CollectionClasses = "classes"
	CollectionEvents  = "events"
)
