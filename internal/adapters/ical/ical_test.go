package ical_test

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"
	"github.com/okian/weekplan/internal/adapters/ical"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/teambition/rrule-go"
)

func strp(s string) *string { return &s }

// 2026-10-21 is a Wednesday.
var ref = time.Date(2026, 10, 21, 15, 30, 0, 0, time.UTC)

func TestFirstOccurrence(t *testing.T) {
	Convey("Given a Wednesday reference", t, func() {
		Convey("When the class is on the same weekday", func() {
			got, err := ical.FirstOccurrence(schedule.Wednesday, "09:00", ref)

			Convey("Then it lands on the reference date", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When the class is on an earlier weekday", func() {
			got, err := ical.FirstOccurrence(schedule.Monday, "10:15", ref)

			Convey("Then it lands on the following week", func() {
				So(err, ShouldBeNil)
				So(got, ShouldEqual, time.Date(2026, 10, 26, 10, 15, 0, 0, time.UTC))
			})
		})

		Convey("When the day is unrecognized or the clock is malformed", func() {
			_, err1 := ical.FirstOccurrence(schedule.Unrecognized, "09:00", ref)
			_, err2 := ical.FirstOccurrence(schedule.Friday, "9 o'clock", ref)

			Convey("Then both fail", func() {
				So(err1, ShouldNotBeNil)
				So(err2, ShouldNotBeNil)
			})
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given classes and events", t, func() {
		classes := []model.ClassEntry{
			{ID: "c1", Day: "Friday", StartTime: "08:00", EndTime: "09:30", CourseCode: "CS101", CourseTitle: "Intro", Room: "B2", TeacherCode: "ABC"},
			{ID: "c2", Day: "Funday", StartTime: "08:00", EndTime: "09:00", CourseCode: "XX"},
		}
		events := []model.EventEntry{
			{ID: "e1", Title: "Holiday", Date: "2026-10-22"},
			{ID: "e2", Title: "Seminar", Date: "2026-10-23", StartTime: strp("14:00"), EndTime: strp("15:00"), Description: strp("Room 4")},
		}

		out, skipped := ical.Render(classes, events, ref)

		Convey("Then the unrecognized day is skipped and reported", func() {
			So(len(skipped), ShouldEqual, 1)
			So(skipped[0].ID, ShouldEqual, "c2")
		})

		Convey("Then the output parses back as a calendar", func() {
			cal, err := ics.ParseCalendar(strings.NewReader(out))
			So(err, ShouldBeNil)
			evs := cal.Events()
			So(len(evs), ShouldEqual, 3)

			byUID := map[string]*ics.VEvent{}
			for _, ev := range evs {
				byUID[ev.Id()] = ev
			}

			Convey("And the class recurs weekly from its first Friday", func() {
				ev := byUID["class-c1@weekplan"]
				So(ev, ShouldNotBeNil)
				So(ev.GetProperty(ics.ComponentPropertySummary).Value, ShouldEqual, "CS101 Intro")
				So(ev.GetProperty(ics.ComponentPropertyLocation).Value, ShouldEqual, "B2")
				start, err := ev.GetStartAt()
				So(err, ShouldBeNil)
				So(start.Equal(time.Date(2026, 10, 23, 8, 0, 0, 0, time.UTC)), ShouldBeTrue)

				rule := ev.GetProperty(ics.ComponentPropertyRrule)
				So(rule, ShouldNotBeNil)
				r, err := rrule.StrToRRule(rule.Value)
				So(err, ShouldBeNil)
				So(r.OrigOptions.Freq, ShouldEqual, rrule.WEEKLY)
			})

			Convey("And the untimed event is all-day", func() {
				ev := byUID["event-e1@weekplan"]
				So(ev, ShouldNotBeNil)
				So(ev.GetProperty(ics.ComponentPropertyDtStart).Value, ShouldEqual, "20261022")
			})

			Convey("And the timed event carries its description", func() {
				ev := byUID["event-e2@weekplan"]
				So(ev, ShouldNotBeNil)
				So(ev.GetProperty(ics.ComponentPropertyDescription).Value, ShouldEqual, "Room 4")
			})
		})
	})

	Convey("Given an event with a malformed date", t, func() {
		_, skipped := ical.Export(nil, []model.EventEntry{{ID: "bad", Title: "x", Date: "22.10.2026"}}, ref)
		So(len(skipped), ShouldEqual, 1)
		So(skipped[0].ID, ShouldEqual, "bad")
	})
}

func TestRender_DaylightSaving(t *testing.T) {
	Convey("Given a Monday class exported from New York before the November change", t, func() {
		ny, err := time.LoadLocation("America/New_York")
		So(err, ShouldBeNil)
		monday := time.Date(2026, 10, 19, 7, 0, 0, 0, ny)
		classes := []model.ClassEntry{{ID: "m1", Day: "Monday", StartTime: "09:00", EndTime: "10:00", CourseCode: "MA201"}}

		out, skipped := ical.Render(classes, nil, monday)
		So(skipped, ShouldBeEmpty)
		cal, err := ics.ParseCalendar(strings.NewReader(out))
		So(err, ShouldBeNil)
		So(len(cal.Events()), ShouldEqual, 1)
		ev := cal.Events()[0]

		Convey("Then start and end are wall-clock times tagged with the zone", func() {
			start := ev.GetProperty(ics.ComponentPropertyDtStart)
			So(start.Value, ShouldEqual, "20261019T090000")
			So(start.ICalParameters["TZID"], ShouldResemble, []string{"America/New_York"})
			end := ev.GetProperty(ics.ComponentPropertyDtEnd)
			So(end.Value, ShouldEqual, "20261019T100000")
			So(ev.GetProperty(ics.ComponentPropertyRrule).Value, ShouldContainSubstring, "BYDAY=MO")
		})

		Convey("Then every weekly occurrence stays at 09:00 local", func() {
			start, err := ev.GetStartAt()
			So(err, ShouldBeNil)
			opt, err := rrule.StrToROption(ev.GetProperty(ics.ComponentPropertyRrule).Value)
			So(err, ShouldBeNil)
			opt.Dtstart = start
			opt.Count = 4
			r, err := rrule.NewRRule(*opt)
			So(err, ShouldBeNil)

			all := r.All()
			So(len(all), ShouldEqual, 4)
			for _, occ := range all {
				local := occ.In(ny)
				So(local.Weekday(), ShouldEqual, time.Monday)
				So(local.Hour(), ShouldEqual, 9)
			}
			So(all[2].Equal(time.Date(2026, 11, 2, 9, 0, 0, 0, ny)), ShouldBeTrue)
		})
	})

	Convey("Given a timed event in New York", t, func() {
		ny, err := time.LoadLocation("America/New_York")
		So(err, ShouldBeNil)
		events := []model.EventEntry{{ID: "e1", Title: "Fair", Date: "2026-11-03", StartTime: strp("13:00")}}

		cal, skipped := ical.Export(nil, events, time.Date(2026, 10, 19, 7, 0, 0, 0, ny))
		So(skipped, ShouldBeEmpty)

		Convey("Then its start is local with the zone as well", func() {
			start := cal.Events()[0].GetProperty(ics.ComponentPropertyDtStart)
			So(start.Value, ShouldEqual, "20261103T130000")
			So(start.ICalParameters["TZID"], ShouldResemble, []string{"America/New_York"})
		})
	})
}
