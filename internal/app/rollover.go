package service

import (
	"context"
	"fmt"

	"github.com/okian/weekplan/internal/domain/invalidation"
	"github.com/okian/weekplan/internal/domain/schedule"
	"github.com/okian/weekplan/pkg/logger"
	"github.com/okian/weekplan/pkg/metrics"
	"github.com/robfig/cron/v3"
)

// Rollover marks today's views stale because the reference date moved on.
func (s *Service) Rollover(ctx context.Context) {
	sig := invalidation.Signal{
		Op:    invalidation.Rollover,
		Views: invalidation.RolloverViews(),
		At:    s.now(),
	}
	s.registry.Publish(ctx, sig)
	s.signals.Enqueue(ctx, sig)
	metrics.RecordRollover()
	s.logger.Info(ctx, "day rollover", logger.String("date", schedule.DateOf(sig.At)))
}

// scheduleRollover builds the cron that calls Rollover in the configured zone.
func (s *Service) scheduleRollover(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.rolloverSpec, func() { s.Rollover(ctx) }); err != nil {
		return nil, fmt.Errorf("rollover schedule %q: %w", s.rolloverSpec, err)
	}
	return c, nil
}
