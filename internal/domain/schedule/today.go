package schedule

import (
	"cmp"
	"slices"
	"time"

	"github.com/okian/weekplan/internal/domain/model"
)

// DateLayout is the calendar date format stored in event_date.
const DateLayout = "2006-01-02"

// Clock supplies the reference instant for "today" projections.
type Clock func() time.Time

// SystemClock reads the wall clock.
func SystemClock() time.Time { return time.Now() }

// In returns a clock that reports c's instants in loc.
func (c Clock) In(loc *time.Location) Clock {
	if loc == nil {
		return c
	}
	return func() time.Time { return c().In(loc) }
}

// DateOf formats the calendar date of ref in ref's location.
func DateOf(ref time.Time) string { return ref.Format(DateLayout) }

// ClassesToday keeps the classes scheduled on ref's weekday, ordered by
// start time. Classes on any other day never appear.
func ClassesToday(classes []model.ClassEntry, ref time.Time) []model.ClassEntry {
	today := WeekdayOf(ref)
	out := make([]model.ClassEntry, 0)
	for _, c := range classes {
		if ParseWeekday(c.Day) == today {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b model.ClassEntry) int {
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return out
}

// EventsToday keeps the events whose event_date equals ref's date,
// ordered by start time with untimed events first.
func EventsToday(events []model.EventEntry, ref time.Time) []model.EventEntry {
	date := DateOf(ref)
	out := make([]model.EventEntry, 0)
	for _, e := range events {
		if e.Date == date {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, CompareEventsByStart)
	return out
}
