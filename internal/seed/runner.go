package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/weekplan/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run seeds the service and verifies its read endpoints.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Workers < 1 {
		return nil, errors.New("workers must be positive")
	}
	log := logger.Get().Named("seed")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting weekplan seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("classes", cfg.NumClasses),
		logger.Int("events", cfg.NumEvents),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	if err := checkServiceHealth(ctx, cfg); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	classes := generateClasses(cfg.NumClasses, cfg.InvalidRatio)
	events := generateEvents(cfg, cfg.NumEvents)
	stats.ClassesGenerated, stats.EventsGenerated = len(classes), len(events)

	subs := make([]submission, 0, len(classes)+len(events))
	for _, c := range classes {
		subs = append(subs, submission{path: "/classes", body: c, wantErr: !isValidInterval(c)})
	}
	for _, e := range events {
		subs = append(subs, submission{path: "/events", body: e})
	}
	if err := submitAll(ctx, cfg, subs, stats); err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	snap, err := fetch(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("read back failed: %w", err)
	}
	if err := verify(ctx, snap, stats); err != nil {
		return stats, err
	}

	if cfg.OutputFile != "" {
		if err := save(cfg.OutputFile, classes, events); err != nil {
			log.Warn(ctx, "failed to save generated records", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "final statistics",
		logger.Int("submitted", stats.Submitted),
		logger.Int("created", stats.Created),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, cfg *Config) error {
	status, err := newHTTPClient(cfg.Timeout).Get(ctx, cfg.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	return nil
}

// save writes the generated records as one JSON document.
func save(filename string, classes []ClassRecord, events []EventRecord) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(struct {
		Classes []ClassRecord `json:"classes"`
		Events  []EventRecord `json:"events"`
	}{classes, events}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	return os.WriteFile(filename, data, filePermission)
}
