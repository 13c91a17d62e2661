package schedule

import "github.com/okian/weekplan/internal/domain/model"

// DayGroup is the ordered run of classes for one stored day value.
type DayGroup struct {
	Day     string             `json:"day"`
	Classes []model.ClassEntry `json:"classes"`
}

// Grouping maps day names to their classes and remembers the order in
// which each day was first seen.
type Grouping struct {
	order []string
	byDay map[string][]model.ClassEntry
}

// GroupByDay partitions an already sorted slice by its Day field.
// Keys appear in first-occurrence order; days without entries are absent.
func GroupByDay(sorted []model.ClassEntry) Grouping {
	g := Grouping{byDay: make(map[string][]model.ClassEntry)}
	for _, e := range sorted {
		if _, ok := g.byDay[e.Day]; !ok {
			g.order = append(g.order, e.Day)
		}
		g.byDay[e.Day] = append(g.byDay[e.Day], e)
	}
	return g
}

// Days returns the keys in insertion order.
func (g Grouping) Days() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Get returns the classes for day and whether the day is present.
func (g Grouping) Get(day string) ([]model.ClassEntry, bool) {
	v, ok := g.byDay[day]
	return v, ok
}

// Len is the number of days present.
func (g Grouping) Len() int { return len(g.order) }

// Total is the number of classes across all days.
func (g Grouping) Total() int {
	n := 0
	for _, v := range g.byDay {
		n += len(v)
	}
	return n
}

// Groups flattens the grouping into an ordered slice.
func (g Grouping) Groups() []DayGroup {
	out := make([]DayGroup, 0, len(g.order))
	for _, day := range g.order {
		out = append(out, DayGroup{Day: day, Classes: g.byDay[day]})
	}
	return out
}
