package sqlstore

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of CreatedAt for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the source of ids for new records.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}
