package service

import (
	"context"
	"slices"

	"github.com/okian/weekplan/internal/adapters/ical"
	"github.com/okian/weekplan/internal/adapters/repository"
	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/internal/domain/types"
	"github.com/okian/weekplan/pkg/logger"
)

// Classes returns every class in canonical weekday order, then by start time.
func (s *Service) Classes(ctx context.Context) ([]model.ClassEntry, error) {
	list, err := s.classList.get(ctx, "", func(ctx context.Context) ([]model.ClassEntry, error) {
		rows, err := s.store.Classes().List(ctx, repository.Query{
			OrderBy: []repository.Order{repository.Asc(model.FieldDay), repository.Asc(model.FieldStartTime)},
		})
		if err != nil {
			return nil, err
		}
		// The store orders day names alphabetically; weekday order is applied here.
		return schedule.SortClasses(rows), nil
	})
	if err != nil {
		return nil, s.readFailed(ctx, "classes", err)
	}
	return slices.Clone(list), nil
}

// ClassesByDay groups the sorted classes into day sections.
func (s *Service) ClassesByDay(ctx context.Context) ([]schedule.DayGroup, error) {
	list, err := s.Classes(ctx)
	if err != nil {
		return nil, err
	}
	return schedule.GroupByDay(list).Groups(), nil
}

// Events returns every event, latest date first, then by start time.
func (s *Service) Events(ctx context.Context) ([]model.EventEntry, error) {
	list, err := s.eventList.get(ctx, "", func(ctx context.Context) ([]model.EventEntry, error) {
		rows, err := s.store.Events().List(ctx, repository.Query{
			OrderBy: []repository.Order{repository.Desc(model.FieldEventDate), repository.Asc(model.FieldStartTime)},
		})
		if err != nil {
			return nil, err
		}
		return schedule.SortEvents(rows), nil
	})
	if err != nil {
		return nil, s.readFailed(ctx, "events", err)
	}
	return slices.Clone(list), nil
}

// TodayClasses returns the classes on the reference weekday.
func (s *Service) TodayClasses(ctx context.Context) (types.TodayView[model.ClassEntry], error) {
	ref := s.now()
	list, err := s.todayClasses.get(ctx, schedule.DateOf(ref), func(ctx context.Context) ([]model.ClassEntry, error) {
		rows, err := s.store.Classes().List(ctx, repository.Query{
			Where:   []repository.Eq{{Field: model.FieldDay, Value: schedule.WeekdayOf(ref).String()}},
			OrderBy: []repository.Order{repository.Asc(model.FieldStartTime)},
		})
		if err != nil {
			return nil, err
		}
		return schedule.ClassesToday(rows, ref), nil
	})
	if err != nil {
		return types.TodayView[model.ClassEntry]{}, s.readFailed(ctx, "today-classes", err)
	}
	return types.NewTodayView(slices.Clone(list), s.displayCap), nil
}

// TodayEvents returns the events dated on the reference date.
func (s *Service) TodayEvents(ctx context.Context) (types.TodayView[model.EventEntry], error) {
	ref := s.now()
	date := schedule.DateOf(ref)
	list, err := s.todayEvents.get(ctx, date, func(ctx context.Context) ([]model.EventEntry, error) {
		rows, err := s.store.Events().List(ctx, repository.Query{
			Where:   []repository.Eq{{Field: model.FieldEventDate, Value: date}},
			OrderBy: []repository.Order{repository.Asc(model.FieldStartTime)},
		})
		if err != nil {
			return nil, err
		}
		return schedule.EventsToday(rows, ref), nil
	})
	if err != nil {
		return types.TodayView[model.EventEntry]{}, s.readFailed(ctx, "today-events", err)
	}
	return types.NewTodayView(slices.Clone(list), s.displayCap), nil
}

// Counts returns the size of both collections.
func (s *Service) Counts(ctx context.Context) (types.Counts, error) {
	classes, err := s.classCount.get(ctx, "", s.store.Classes().Count)
	if err != nil {
		return types.Counts{}, s.readFailed(ctx, "classes-count", err)
	}
	events, err := s.eventCount.get(ctx, "", s.store.Events().Count)
	if err != nil {
		return types.Counts{}, s.readFailed(ctx, "events-count", err)
	}
	return types.Counts{Classes: classes, Events: events}, nil
}

// Today assembles the dashboard for the reference date.
func (s *Service) Today(ctx context.Context) (types.Today, error) {
	ref := s.now()
	classes, err := s.TodayClasses(ctx)
	if err != nil {
		return types.Today{}, err
	}
	events, err := s.TodayEvents(ctx)
	if err != nil {
		return types.Today{}, err
	}
	counts, err := s.Counts(ctx)
	if err != nil {
		return types.Today{}, err
	}
	return types.Today{
		Date:    schedule.DateOf(ref),
		Weekday: schedule.WeekdayOf(ref).String(),
		Classes: classes,
		Events:  events,
		Counts:  counts,
	}, nil
}

// Calendar renders every class and event as an iCalendar feed.
func (s *Service) Calendar(ctx context.Context) (string, error) {
	classes, err := s.Classes(ctx)
	if err != nil {
		return "", err
	}
	events, err := s.Events(ctx)
	if err != nil {
		return "", err
	}
	out, skipped := ical.Render(classes, events, s.now())
	for _, sk := range skipped {
		s.logger.Warn(ctx, "record left out of calendar",
			logger.String("id", sk.ID),
			logger.String("reason", sk.Reason),
		)
	}
	return out, nil
}

// servedStale logs a reload failure that was answered from the cached value.
func (s *Service) servedStale(ctx context.Context, view invalidation.View, err error) {
	s.logger.Warn(ctx, "projection reload failed, serving last known value",
		logger.String("view", string(view)),
		logger.Error(wrapStore(err)),
	)
}

func (s *Service) readFailed(ctx context.Context, view string, err error) error {
	s.logger.Error(ctx, "projection load failed", logger.String("view", view), logger.Error(err))
	return wrapStore(err)
}
