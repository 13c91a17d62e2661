package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	gormlogger "gorm.io/gorm/logger"
)

func TestOrderClauses(t *testing.T) {
	Convey("Given a two-field ordering", t, func() {
		q := Query{OrderBy: []Order{Desc(model.FieldEventDate), Asc(model.FieldStartTime)}}

		Convey("Then nulls are placed to match the memory store", func() {
			So(orderClauses(q), ShouldResemble, []string{
				"event_date DESC NULLS LAST",
				"start_time ASC NULLS FIRST",
			})
		})
	})

	Convey("Given no ordering", t, func() {
		So(orderClauses(Query{}), ShouldBeEmpty)
	})
}

func TestRowConversion(t *testing.T) {
	Convey("Given a class entry", t, func() {
		c := model.ClassEntry{ID: "c1", Day: "Tuesday", StartTime: "09:00", EndTime: "10:30", CourseCode: "CS101", CourseTitle: "Intro", Room: "B2"}

		Convey("Then it survives the row mapping", func() {
			So(classFromRow(classToRow(c)), ShouldResemble, c)
		})
	})

	Convey("Given an event entry with a null start", t, func() {
		end := "12:00"
		e := model.EventEntry{ID: "e1", Title: "Fair", Date: "2026-10-21", EndTime: &end}
		row, err := eventToRow(e)

		Convey("Then the date column is a calendar date and nulls stay nil", func() {
			So(err, ShouldBeNil)
			So(row.EventDate.Equal(time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(row.StartTime, ShouldBeNil)
			So(eventFromRow(row), ShouldResemble, e)
		})
	})

	Convey("Given an event with a malformed date", t, func() {
		_, err := eventToRow(model.EventEntry{Title: "x", Date: "21/10/2026"})
		So(errors.Is(err, model.ErrInvalidDate), ShouldBeTrue)
	})

	Convey("Given the table names", t, func() {
		So(classRow{}.TableName(), ShouldEqual, "classes")
		So(eventRow{}.TableName(), ShouldEqual, "events")
	})
}

func TestGormLogger(t *testing.T) {
	Convey("Given the gorm logger adapter", t, func() {
		_ = logger.Init()
		l := newGormLogger(logger.Get())

		Convey("When switching modes", func() {
			silent := l.LogMode(gormlogger.Silent)

			Convey("Then the original keeps its level", func() {
				So(l.level, ShouldEqual, gormlogger.Warn)
				So(silent.(*gormLogger).level, ShouldEqual, gormlogger.Silent)
			})
		})

		Convey("When tracing a failed statement", func() {
			called := false
			fc := func() (string, int64) { called = true; return "SELECT 1", 0 }
			l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))

			Convey("Then the statement is rendered for the log", func() {
				So(called, ShouldBeTrue)
			})
		})

		Convey("When tracing a fast successful statement at warn", func() {
			called := false
			l.Trace(context.Background(), time.Now(), func() (string, int64) { called = true; return "", 0 }, nil)
			So(called, ShouldBeFalse)
		})
	})
}
