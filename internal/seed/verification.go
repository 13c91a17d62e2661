package seed

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/internal/domain/types"
	"github.com/okian/weekplan/pkg/logger"
)

// ErrVerification marks a read endpoint that broke an ordering rule.
var ErrVerification = errors.New("verification failed")

// snapshot is everything the read endpoints returned.
type snapshot struct {
	classes []model.ClassEntry
	groups  []schedule.DayGroup
	events  []model.EventEntry
	today   types.Today
}

func fetch(ctx context.Context, cfg *Config) (*snapshot, error) {
	client := newHTTPClient(cfg.Timeout)
	s := &snapshot{}
	for _, r := range []struct {
		path string
		into any
	}{
		{"/classes", &s.classes},
		{"/classes/by-day", &s.groups},
		{"/events", &s.events},
		{"/today", &s.today},
	} {
		status, err := client.Get(ctx, cfg.BaseURL+r.path, r.into)
		if err != nil {
			return nil, fmt.Errorf("GET %s: %w", r.path, err)
		}
		if status != 200 {
			return nil, fmt.Errorf("GET %s: status %d", r.path, status)
		}
	}
	return s, nil
}

// verify checks the snapshot against the ordering and projection rules.
func verify(ctx context.Context, s *snapshot, stats *Stats) error {
	log := logger.Get().Named("seed")
	checks := []struct {
		name string
		fn   func(*snapshot) error
	}{
		{"class order", checkClassOrder},
		{"day sections", checkGroups},
		{"event order", checkEventOrder},
		{"today classes", checkTodayClasses},
		{"today events", checkTodayEvents},
		{"counts", checkCounts},
	}
	var errs []error
	for _, c := range checks {
		if err := c.fn(s); err != nil {
			log.Error(ctx, "check failed", logger.String("check", c.name), logger.Error(err))
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrVerification, c.name, err))
			continue
		}
		stats.ChecksPassed++
		log.Info(ctx, "check passed", logger.String("check", c.name))
	}
	return errors.Join(errs...)
}

func checkClassOrder(s *snapshot) error {
	for i := 1; i < len(s.classes); i++ {
		if schedule.CompareClasses(s.classes[i-1], s.classes[i]) > 0 {
			return fmt.Errorf("entry %d (%s %s) sorts after entry %d (%s %s)",
				i-1, s.classes[i-1].Day, s.classes[i-1].StartTime, i, s.classes[i].Day, s.classes[i].StartTime)
		}
	}
	return nil
}

func checkGroups(s *snapshot) error {
	want := schedule.GroupByDay(s.classes).Groups()
	if len(want) != len(s.groups) {
		return fmt.Errorf("got %d sections, want %d", len(s.groups), len(want))
	}
	for i := range want {
		if want[i].Day != s.groups[i].Day || len(want[i].Classes) != len(s.groups[i].Classes) {
			return fmt.Errorf("section %d is %s with %d classes, want %s with %d",
				i, s.groups[i].Day, len(s.groups[i].Classes), want[i].Day, len(want[i].Classes))
		}
	}
	return nil
}

func checkEventOrder(s *snapshot) error {
	sorted := schedule.SortEvents(s.events)
	for i := range sorted {
		if sorted[i].Date != s.events[i].Date || sorted[i].Start() != s.events[i].Start() {
			return fmt.Errorf("entry %d is %s %q, want %s %q",
				i, s.events[i].Date, s.events[i].Start(), sorted[i].Date, sorted[i].Start())
		}
	}
	return nil
}

func reference(s *snapshot) (time.Time, error) {
	return time.Parse(schedule.DateLayout, s.today.Date)
}

func checkTodayClasses(s *snapshot) error {
	ref, err := reference(s)
	if err != nil {
		return err
	}
	want := schedule.ClassesToday(s.classes, ref)
	got := s.today.Classes.Items
	if len(got) != len(want) || s.today.Classes.Total != len(want) {
		return fmt.Errorf("got %d classes today, want %d", len(got), len(want))
	}
	if !slices.IsSortedFunc(got, func(a, b model.ClassEntry) int { return cmp.Compare(a.StartTime, b.StartTime) }) {
		return errors.New("today's classes are not ordered by start time")
	}
	if s.today.Classes.Overflow != len(got)-len(s.today.Classes.Shown) {
		return errors.New("overflow does not match the shown slice")
	}
	return nil
}

func checkTodayEvents(s *snapshot) error {
	ref, err := reference(s)
	if err != nil {
		return err
	}
	want := schedule.EventsToday(s.events, ref)
	got := s.today.Events.Items
	if len(got) != len(want) {
		return fmt.Errorf("got %d events today, want %d", len(got), len(want))
	}
	if !slices.IsSortedFunc(got, schedule.CompareEventsByStart) {
		return errors.New("today's events are not ordered with untimed first")
	}
	return nil
}

func checkCounts(s *snapshot) error {
	if s.today.Counts.Classes != len(s.classes) || s.today.Counts.Events != len(s.events) {
		return fmt.Errorf("counts %+v do not match lists (%d classes, %d events)",
			s.today.Counts, len(s.classes), len(s.events))
	}
	return nil
}
