// Package invalidation declares which derived views go stale after a
// mutation and delivers "collection changed" signals to subscribers.
package invalidation

import (
	"slices"
	"time"
)

// Collection identifies a record collection owned by the store.
type Collection string

// Collections.
const (
	Classes Collection = "classes"
	Events  Collection = "events"
)

// Op is a write operation against a collection.
type Op string

// Operations.
const (
	Create Op = "create"
	Update Op = "update"
	Delete Op = "delete"
	// Rollover is not a write: the reference date moved on.
	Rollover Op = "rollover"
)

// View is a derived projection that can go stale.
type View string

// Views.
const (
	ClassList    View = "classes"
	ClassCount   View = "classes-count"
	TodayClasses View = "today-classes"
	EventList    View = "events"
	EventCount   View = "events-count"
	TodayEvents  View = "today-events"
)

// AllViews lists every view in a stable order.
var AllViews = []View{ClassList, ClassCount, TodayClasses, EventList, EventCount, TodayEvents}

// table is the fixed stale-set per collection and operation.
// Updates never change a collection's size, so counts are left alone.
var table = map[Collection]map[Op][]View{
	Classes: {
		Create: {ClassList, ClassCount, TodayClasses},
		Update: {ClassList, TodayClasses},
		Delete: {ClassList, ClassCount, TodayClasses},
	},
	Events: {
		Create: {EventList, EventCount, TodayEvents},
		Update: {EventList, TodayEvents},
		Delete: {EventList, EventCount, TodayEvents},
	},
}

// ViewsFor returns the views made stale by a successful op on c.
// Unknown combinations return nil.
func ViewsFor(c Collection, op Op) []View {
	return slices.Clone(table[c][op])
}

// RolloverViews are the clock-dependent views.
func RolloverViews() []View {
	return []View{TodayClasses, TodayEvents}
}

// Signal announces that Views are stale because of Op on Collection.
type Signal struct {
	Collection Collection `json:"collection,omitempty"`
	Op         Op         `json:"op"`
	RecordID   string     `json:"record_id,omitempty"`
	Views      []View     `json:"views"`
	At         time.Time  `json:"at"`
}

// NewSignal builds the signal for a successful mutation.
func NewSignal(c Collection, op Op, id string, at time.Time) Signal {
	return Signal{Collection: c, Op: op, RecordID: id, Views: ViewsFor(c, op), At: at}
}

// Has reports whether v is among the signal's views.
func (s Signal) Has(v View) bool { return slices.Contains(s.Views, v) }
