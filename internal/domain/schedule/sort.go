package schedule

import (
	"cmp"
	"slices"

	"github.com/okian/weekplan/internal/domain/model"
)

// CompareClasses orders by weekday rank, then start time.
func CompareClasses(a, b model.ClassEntry) int {
	if c := CompareDays(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp.Compare(a.StartTime, b.StartTime)
}

// SortClasses returns a new slice in canonical weekly order.
// Entries sharing weekday and start time keep their input order.
func SortClasses(in []model.ClassEntry) []model.ClassEntry {
	out := slices.Clone(in)
	if out == nil {
		out = []model.ClassEntry{}
	}
	slices.SortStableFunc(out, CompareClasses)
	return out
}

// CompareEventsByStart orders by start time; untimed events sort first.
func CompareEventsByStart(a, b model.EventEntry) int {
	return cmp.Compare(a.Start(), b.Start())
}

// SortEvents returns the event list order: newest date first, then start
// time ascending within a date.
func SortEvents(in []model.EventEntry) []model.EventEntry {
	out := slices.Clone(in)
	if out == nil {
		out = []model.EventEntry{}
	}
	slices.SortStableFunc(out, func(a, b model.EventEntry) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return CompareEventsByStart(a, b)
	})
	return out
}
