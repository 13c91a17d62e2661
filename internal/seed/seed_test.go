package seed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/weekplan/internal/adapters/http/api"
	service "github.com/okian/weekplan/internal/app"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/internal/domain/types"
	"github.com/okian/weekplan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var wednesday = time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC)

func newPlannerServer() (*httptest.Server, func()) {
	svc := service.New(
		service.WithClock(func() time.Time { return wednesday }),
		service.WithLocation(time.UTC),
		service.WithRolloverCron(""),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func TestGenerateClasses(t *testing.T) {
	Convey("Given generated classes without invalid ones", t, func() {
		classes := generateClasses(200, 0)

		Convey("Then every class is complete and has a valid interval", func() {
			So(len(classes), ShouldEqual, 200)
			for _, c := range classes {
				So(isValidInterval(c), ShouldBeTrue)
				So(schedule.ParseWeekday(c.Day).Valid(), ShouldBeTrue)
				So(model.ClassDraft{
					Day: c.Day, StartTime: c.StartTime, EndTime: c.EndTime,
					CourseCode: c.CourseCode, CourseTitle: c.CourseTitle,
				}.Missing(), ShouldBeEmpty)
			}
		})
	})

	Convey("Given an invalid ratio of one", t, func() {
		classes := generateClasses(50, 1)

		Convey("Then every interval is inverted or empty", func() {
			for _, c := range classes {
				So(isValidInterval(c), ShouldBeFalse)
			}
		})
	})
}

func TestGenerateEvents(t *testing.T) {
	Convey("Given generated events", t, func() {
		events := generateEvents(&Config{Reference: wednesday}, 100)

		Convey("Then every date lies within a week of the reference", func() {
			lo, hi := schedule.DateOf(wednesday.AddDate(0, 0, -7)), schedule.DateOf(wednesday.AddDate(0, 0, 7))
			for _, e := range events {
				So(e.Date, ShouldBeBetweenOrEqual, lo, hi)
				So(e.Title, ShouldNotBeEmpty)
				if e.StartTime != nil {
					So(*e.StartTime, ShouldBeLessThan, *e.EndTime)
				}
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running planner", t, func() {
		srv, stop := newPlannerServer()
		defer stop()
		out := filepath.Join(t.TempDir(), "records", "seed.json")

		cfg := &Config{
			BaseURL:      srv.URL,
			NumClasses:   60,
			NumEvents:    30,
			InvalidRatio: 0.2,
			Workers:      4,
			Timeout:      5 * time.Second,
			Reference:    wednesday,
			OutputFile:   out,
		}

		Convey("When seeding it", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Then every submission is answered as predicted and all checks pass", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 90)
				So(stats.Created+stats.Rejected, ShouldEqual, 90)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.ChecksPassed, ShouldEqual, 6)
			})

			Convey("Then the generated records are saved", func() {
				_, err := os.Stat(out)
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given no service at the URL", t, func() {
		srv, stop := newPlannerServer()
		url := srv.URL
		stop()

		Convey("Then the health check fails", func() {
			_, err := Run(context.Background(), &Config{BaseURL: url, Workers: 1, Timeout: time.Second})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a snapshot with classes out of order", t, func() {
		s := &snapshot{
			classes: []model.ClassEntry{
				{Day: "Friday", StartTime: "09:00"},
				{Day: "Monday", StartTime: "09:00"},
			},
			today: types.Today{Date: "2026-10-21", Counts: types.Counts{Classes: 2}},
		}
		s.groups = schedule.GroupByDay(s.classes).Groups()

		Convey("Then verification names the class order check", func() {
			stats := &Stats{}
			err := verify(context.Background(), s, stats)
			So(errors.Is(err, ErrVerification), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "class order")
			So(stats.ChecksPassed, ShouldEqual, 5)
		})
	})

	Convey("Given events with a timed entry before an untimed one on the same date", t, func() {
		start := "10:00"
		s := &snapshot{
			events: []model.EventEntry{
				{Date: "2026-10-21", StartTime: &start},
				{Date: "2026-10-21"},
			},
		}
		So(checkEventOrder(s), ShouldNotBeNil)
	})
}
