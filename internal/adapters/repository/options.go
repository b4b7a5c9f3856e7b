package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the source of CreatedAt for new records.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the source of ids for new records.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *MemoryStore) {
		if newID != nil {
			s.newID = newID
		}
	}
}
