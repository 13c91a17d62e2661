// Package schedule holds the pure ordering, grouping, validation and
// "today" projection rules over class and event records.
//
// Nothing here performs I/O or keeps state; every function works on the
// snapshot it is given and returns fresh slices.
package schedule

import "time"

// Weekday is the closed set of schedule days. The numeric value is the
// canonical rank: Monday ranks first, Unrecognized ranks after Sunday.
type Weekday uint8

// Canonical weekdays.
const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
	// Unrecognized is any stored day value outside the seven names.
	Unrecognized
)

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Weekdays lists the canonical days in rank order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday maps an exact canonical name to its Weekday.
// Abbreviations, other cases and locales are Unrecognized.
func ParseWeekday(s string) Weekday {
	for _, d := range Weekdays {
		if weekdayNames[d] == s {
			return d
		}
	}
	return Unrecognized
}

// Rank returns 1..7 for canonical days and 8 otherwise.
func (d Weekday) Rank() int {
	if d < Monday || d > Sunday {
		return int(Unrecognized)
	}
	return int(d)
}

// Valid reports whether d is one of the seven canonical days.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

func (d Weekday) String() string {
	if !d.Valid() {
		return "Unrecognized"
	}
	return weekdayNames[d]
}

// RankOf is the rank of a stored day string.
func RankOf(day string) int { return ParseWeekday(day).Rank() }

// CompareDays orders two stored day strings by canonical rank.
// Two unrecognized values compare equal.
func CompareDays(a, b string) int {
	return RankOf(a) - RankOf(b)
}

// WeekdayOf returns the canonical weekday of t in t's own location.
// It relies on time.Weekday, not on any locale formatting.
func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

// ToTime converts a canonical day to time.Weekday. ok is false for Unrecognized.
func (d Weekday) ToTime() (time.Weekday, bool) {
	if !d.Valid() {
		return 0, false
	}
	if d == Sunday {
		return time.Sunday, true
	}
	return time.Weekday(d), true
}
