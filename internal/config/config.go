// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load layers a YAML file and WEEKPLAN_* env vars on top of the defaults.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"runtime"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the record store backend: memory or postgres.
	Store string `koanf:"store"`

	// DatabaseURL is the Postgres DSN used when Store is postgres.
	DatabaseURL string `koanf:"database_url"`

	// RedisAddr enables the Redis invalidation sink when set.
	RedisAddr string `koanf:"redis_addr"`

	// RedisChannel is the pub/sub channel invalidation signals are published on.
	RedisChannel string `koanf:"redis_channel"`

	// Timezone is the IANA zone of the reference clock. Empty means local.
	Timezone string `koanf:"timezone"`

	// TodayDisplayCap limits how many of today's entries the dashboard shows.
	TodayDisplayCap int `koanf:"today_display_cap"`

	// RolloverCron schedules the midnight refresh of today's views.
	RolloverCron string `koanf:"rollover_cron"`

	// SignalQueueSize bounds the in-memory invalidation signal queue.
	SignalQueueSize int `koanf:"signal_queue_size"`

	// DispatchWorkers sets the number of signal dispatch workers.
	DispatchWorkers int `koanf:"dispatch_workers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		Store:           StoreMemory,
		RedisChannel:    "weekplan:invalidations",
		TodayDisplayCap: 5,
		RolloverCron:    "0 0 * * *",
		SignalQueueSize: 1024,
		DispatchWorkers: max(2, runtime.NumCPU()/2),
	}
}
