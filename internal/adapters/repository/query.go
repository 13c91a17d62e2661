package repository

import (
	"cmp"
	"fmt"

	"github.com/okian/weekplan/internal/domain/model"
)

// maxOrderFields caps Query.OrderBy.
const maxOrderFields = 2

// Eq is an equality predicate on one column.
type Eq struct {
	Field model.Field
	Value string
}

// Order sorts by one column. Nulls come first ascending and last descending.
type Order struct {
	Field model.Field
	Desc  bool
}

// Query selects and orders records of a collection.
type Query struct {
	Where   []Eq
	OrderBy []Order
}

// Asc orders ascending by f.
func Asc(f model.Field) Order { return Order{Field: f} }

// Desc orders descending by f.
func Desc(f model.Field) Order { return Order{Field: f, Desc: true} }

// validate rejects columns the record type does not have and overlong orderings.
func validate[T Record[T]](q Query) error {
	var zero T
	if len(q.OrderBy) > maxOrderFields {
		return fmt.Errorf("%w: at most %d order fields, got %d", ErrInvalidQuery, maxOrderFields, len(q.OrderBy))
	}
	for _, w := range q.Where {
		if _, ok := zero.Lookup(w.Field); !ok {
			return fmt.Errorf("%w: unknown filter field %q", ErrInvalidQuery, w.Field)
		}
	}
	for _, o := range q.OrderBy {
		if _, ok := zero.Lookup(o.Field); !ok {
			return fmt.Errorf("%w: unknown order field %q", ErrInvalidQuery, o.Field)
		}
	}
	return nil
}

// matches reports whether rec satisfies every predicate. Null never equals a value.
func (q Query) matches(rec interface {
	Lookup(model.Field) (*string, bool)
}) bool {
	for _, w := range q.Where {
		v, _ := rec.Lookup(w.Field)
		if v == nil || *v != w.Value {
			return false
		}
	}
	return true
}

// compare orders a before b under q. Ties keep their incoming order.
func compare[T Record[T]](q Query, a, b T) int {
	for _, o := range q.OrderBy {
		av, _ := a.Lookup(o.Field)
		bv, _ := b.Lookup(o.Field)
		c := compareNullable(av, bv)
		if o.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareNullable(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
