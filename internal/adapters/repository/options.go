package repository

import (
	"github.com/okian/weekplan/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator replaces the uuid generator used for new records.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// GormOption applies a configuration option to the GormStore.
type GormOption func(*GormStore)

// WithGormLogger routes SQL logging through l.
func WithGormLogger(l logger.Logger) GormOption {
	return func(s *GormStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAutoMigrate controls whether the tables are created on open.
func WithAutoMigrate(enabled bool) GormOption {
	return func(s *GormStore) {
		s.autoMigrate = enabled
	}
}
