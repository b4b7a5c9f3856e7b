// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is one scored letter submission.
// Letters holds only A-Z and Points is always the sum of their values.
type ScoreRecord struct {
	ID        uuid.UUID // assigned by the store on save
	Letters   string    // normalized, uppercase
	Points    int
	CreatedAt time.Time // assigned by the store on save, UTC
}

// IsNew reports whether the record has not been persisted yet.
func (r ScoreRecord) IsNew() bool {
	return r.ID == uuid.Nil
}

// RankedEntry is a ScoreRecord numbered within one leaderboard page.
type RankedEntry struct {
	Rank   int // 1-based, positional within the page
	Record ScoreRecord
}
