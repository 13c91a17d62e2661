// Package ical renders the planner as an iCalendar feed.
//
// Each class becomes a weekly recurring VEVENT anchored on its first
// occurrence on or after the reference date. Each event becomes a single
// VEVENT, all-day when it has no start time.
//
// Times are wall-clock times in the reference location, written with a TZID
// so weekly rules keep their local hour across daylight saving changes.
package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/teambition/rrule-go"
)

const (
	productID    = "-//weekplan//schedule//EN"
	uidDomain    = "weekplan"
	clockLayout  = "15:04"
	localLayout  = "20060102T150405"
	utcLayout    = "20060102T150405Z"
	calendarName = "Weekly schedule"
)

// rruleDays maps time.Weekday to rrule weekdays.
var rruleDays = [...]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// Skipped names a record left out of the feed and why.
type Skipped struct {
	ID     string
	Reason string
}

// Export builds the calendar for classes and events relative to ref.
// Times are interpreted in ref's location.
func Export(classes []model.ClassEntry, events []model.EventEntry, ref time.Time) (*ics.Calendar, []Skipped) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(calendarName)
	if tzid, ok := zoneID(ref.Location()); ok {
		cal.SetXWRTimezone(tzid)
	}

	var skipped []Skipped
	for _, c := range classes {
		if err := addClass(cal, c, ref); err != nil {
			skipped = append(skipped, Skipped{ID: c.ID, Reason: err.Error()})
		}
	}
	for _, e := range events {
		if err := addEvent(cal, e, ref); err != nil {
			skipped = append(skipped, Skipped{ID: e.ID, Reason: err.Error()})
		}
	}
	return cal, skipped
}

// Render is Export serialized to text.
func Render(classes []model.ClassEntry, events []model.EventEntry, ref time.Time) (string, []Skipped) {
	cal, skipped := Export(classes, events, ref)
	return cal.Serialize(), skipped
}

// FirstOccurrence returns the first instant on or after ref's date whose
// weekday is day, at clock "HH:MM" in ref's location.
func FirstOccurrence(day schedule.Weekday, clock string, ref time.Time) (time.Time, error) {
	wd, ok := day.ToTime()
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized day %q", day)
	}
	h, m, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	midnight := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   midnight,
		Byweekday: []rrule.Weekday{rruleDays[wd]},
		Byhour:    []int{h},
		Byminute:  []int{m},
		Bysecond:  []int{0},
		Count:     1,
	})
	if err != nil {
		return time.Time{}, err
	}
	all := r.All()
	if len(all) == 0 {
		return time.Time{}, fmt.Errorf("no occurrence for %s %s", day, clock)
	}
	return all[0], nil
}

func addClass(cal *ics.Calendar, c model.ClassEntry, ref time.Time) error {
	day := schedule.ParseWeekday(c.Day)
	if !day.Valid() {
		return fmt.Errorf("unrecognized day %q", c.Day)
	}
	start, err := FirstOccurrence(day, c.StartTime, ref)
	if err != nil {
		return err
	}
	end, err := onDate(start, c.EndTime)
	if err != nil {
		return err
	}

	ev := cal.AddEvent(uid("class", c.ID))
	ev.SetDtStampTime(ref)
	setTime(ev, ics.ComponentPropertyDtStart, start)
	setTime(ev, ics.ComponentPropertyDtEnd, end)
	ev.SetSummary(classSummary(c))
	if c.Room != "" {
		ev.SetLocation(c.Room)
	}
	if d := classDescription(c); d != "" {
		ev.SetDescription(d)
	}

	weekly := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rruleDays[start.Weekday()]}}
	ev.AddRrule(weekly.RRuleString())
	return nil
}

func addEvent(cal *ics.Calendar, e model.EventEntry, ref time.Time) error {
	date, err := time.ParseInLocation(schedule.DateLayout, e.Date, ref.Location())
	if err != nil {
		return fmt.Errorf("%w: %q", model.ErrInvalidDate, e.Date)
	}

	var start, end time.Time
	if e.StartTime != nil {
		if start, err = onDate(date, *e.StartTime); err != nil {
			return err
		}
	}
	if e.StartTime != nil && e.EndTime != nil {
		if end, err = onDate(date, *e.EndTime); err != nil {
			return err
		}
	}

	ev := cal.AddEvent(uid("event", e.ID))
	ev.SetDtStampTime(ref)
	ev.SetSummary(e.Title)
	if e.Description != nil {
		ev.SetDescription(*e.Description)
	}
	switch {
	case start.IsZero():
		ev.SetAllDayStartAt(date)
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
	case end.IsZero():
		setTime(ev, ics.ComponentPropertyDtStart, start)
	default:
		setTime(ev, ics.ComponentPropertyDtStart, start)
		setTime(ev, ics.ComponentPropertyDtEnd, end)
	}
	return nil
}

// setTime writes t as wall-clock time in its own location. UTC keeps the
// Z form and time.Local, which has no IANA name, is written floating.
func setTime(ev *ics.VEvent, prop ics.ComponentProperty, t time.Time) {
	loc := t.Location()
	if loc == time.UTC || loc.String() == "UTC" {
		ev.SetProperty(prop, t.UTC().Format(utcLayout))
		return
	}
	if tzid, ok := zoneID(loc); ok {
		ev.SetProperty(prop, t.Format(localLayout), ics.WithTZID(tzid))
		return
	}
	ev.SetProperty(prop, t.Format(localLayout))
}

func zoneID(loc *time.Location) (string, bool) {
	if loc == time.UTC || loc == time.Local {
		return "", false
	}
	name := loc.String()
	return name, name != "" && name != "UTC" && name != "Local"
}

// onDate places clock "HH:MM" on day's calendar date.
func onDate(day time.Time, clock string) (time.Time, error) {
	h, m, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

func parseClock(clock string) (hour, minute int, err error) {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q", clock)
	}
	return t.Hour(), t.Minute(), nil
}

func uid(kind, id string) string {
	return kind + "-" + id + "@" + uidDomain
}

func classSummary(c model.ClassEntry) string {
	switch {
	case c.CourseCode != "" && c.CourseTitle != "":
		return c.CourseCode + " " + c.CourseTitle
	case c.CourseTitle != "":
		return c.CourseTitle
	}
	return c.CourseCode
}

func classDescription(c model.ClassEntry) string {
	var parts []string
	if c.TeacherCode != "" {
		parts = append(parts, "Teacher: "+c.TeacherCode)
	}
	if c.Section != "" {
		parts = append(parts, "Section: "+c.Section)
	}
	return strings.Join(parts, "\n")
}
