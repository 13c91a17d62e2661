package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/internal/domain/model"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/internal/domain/types"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/okian/weekplan/pkg/metrics"
)

// CreateClass validates d and inserts it. session identifies the submitting
// form; a second submit from the same form while this one is in flight is
// rejected. An empty session is not guarded.
func (s *Service) CreateClass(ctx context.Context, session string, d model.ClassDraft) (types.Outcome, error) {
	if out, err := s.checkClass(d); err != nil {
		return out, err
	}
	return s.mutate(ctx, session, invalidation.Classes, invalidation.Create, func(ctx context.Context) (string, error) {
		return s.store.Classes().Insert(ctx, d.Entry(""))
	})
}

// UpdateClass validates d and replaces every field of class id.
func (s *Service) UpdateClass(ctx context.Context, session, id string, d model.ClassDraft) (types.Outcome, error) {
	if out, err := s.checkClass(d); err != nil {
		return out, err
	}
	return s.mutate(ctx, session, invalidation.Classes, invalidation.Update, func(ctx context.Context) (string, error) {
		return id, s.store.Classes().Update(ctx, id, d.Entry(id))
	})
}

// DeleteClass removes class id.
func (s *Service) DeleteClass(ctx context.Context, id string) (types.Outcome, error) {
	return s.mutate(ctx, "", invalidation.Classes, invalidation.Delete, func(ctx context.Context) (string, error) {
		return id, s.store.Classes().Delete(ctx, id)
	})
}

// CreateEvent validates d and inserts it. Empty optional fields are stored as null.
func (s *Service) CreateEvent(ctx context.Context, session string, d model.EventDraft) (types.Outcome, error) {
	if out, err := s.checkEvent(d); err != nil {
		return out, err
	}
	return s.mutate(ctx, session, invalidation.Events, invalidation.Create, func(ctx context.Context) (string, error) {
		return s.store.Events().Insert(ctx, d.Entry(""))
	})
}

// UpdateEvent validates d and replaces every field of event id.
func (s *Service) UpdateEvent(ctx context.Context, session, id string, d model.EventDraft) (types.Outcome, error) {
	if out, err := s.checkEvent(d); err != nil {
		return out, err
	}
	return s.mutate(ctx, session, invalidation.Events, invalidation.Update, func(ctx context.Context) (string, error) {
		return id, s.store.Events().Update(ctx, id, d.Entry(id))
	})
}

// DeleteEvent removes event id.
func (s *Service) DeleteEvent(ctx context.Context, id string) (types.Outcome, error) {
	return s.mutate(ctx, "", invalidation.Events, invalidation.Delete, func(ctx context.Context) (string, error) {
		return id, s.store.Events().Delete(ctx, id)
	})
}

func (s *Service) checkClass(d model.ClassDraft) (types.Outcome, error) {
	err := schedule.ValidateClass(d)
	var ie *schedule.IntervalError
	switch {
	case err == nil:
		return types.Outcome{}, nil
	case errors.As(err, &ie):
		metrics.RecordValidationFailure(string(invalidation.Classes), "invalid_time")
		return rejected(TitleInvalidTime, ie.Message), err
	default:
		metrics.RecordValidationFailure(string(invalidation.Classes), "missing_field")
		return rejected(TitleError, missingMessage(err)), err
	}
}

func (s *Service) checkEvent(d model.EventDraft) (types.Outcome, error) {
	err := d.Validate()
	switch {
	case err == nil:
		return types.Outcome{}, nil
	case errors.Is(err, model.ErrInvalidDate):
		metrics.RecordValidationFailure(string(invalidation.Events), "invalid_date")
		return rejected(TitleError, "Event date must be a YYYY-MM-DD date."), err
	default:
		metrics.RecordValidationFailure(string(invalidation.Events), "missing_field")
		return rejected(TitleError, missingMessage(err)), err
	}
}

func missingMessage(err error) string {
	var fe *model.FieldError
	if errors.As(err, &fe) {
		return "Please fill in the required fields: " + strings.Join(fe.Fields, ", ") + "."
	}
	return err.Error()
}

// mutate runs one store write and, only if it succeeds, invalidates the
// views the write affects. Invalidation of the local projections happens
// before mutate returns; the fan-out to sinks is queued and may be dropped.
func (s *Service) mutate(
	ctx context.Context,
	session string,
	c invalidation.Collection,
	op invalidation.Op,
	write func(context.Context) (string, error),
) (types.Outcome, error) {
	if session != "" {
		if !s.guard.Acquire(ctx, session) {
			metrics.RecordSubmissionBlocked()
			return rejected(TitleError, MessagePending), ErrSubmissionPending
		}
		defer s.guard.Release(ctx, session)
	}

	id, err := write(ctx)
	if err != nil {
		metrics.RecordMutation(string(c), string(op), "error")
		s.logger.Error(ctx, "store write failed",
			logger.String("collection", string(c)),
			logger.String("op", string(op)),
			logger.String("id", id),
			logger.Error(err),
		)
		return failed(c, op), fmt.Errorf("%w: %s %s: %w", ErrStore, op, c, err)
	}
	metrics.RecordMutation(string(c), string(op), "ok")

	sig := invalidation.NewSignal(c, op, id, s.now())
	s.registry.Publish(ctx, sig)
	if !s.signals.Enqueue(ctx, sig) {
		s.logger.Debug(ctx, "invalidation fan-out dropped",
			logger.String("collection", string(c)),
			logger.String("op", string(op)),
		)
	}
	return succeeded(c, op, id), nil
}
