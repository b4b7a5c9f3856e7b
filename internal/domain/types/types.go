// Package types contains the JSON shapes exchanged over the HTTP API.
package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/scoring"
)

// ScoringRule is one letter band.
type ScoringRule struct {
	Points  int    `json:"points"`
	Letters string `json:"letters"`
}

// ComputedScore is the compute-only response.
type ComputedScore struct {
	Letters string `json:"letters"`
	Score   int    `json:"score"`
}

// Score is a persisted submission.
type Score struct {
	ID        uuid.UUID `json:"id"`
	Letters   string    `json:"letters"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// TopScore is one leaderboard row.
type TopScore struct {
	ID        uuid.UUID `json:"id"`
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	Letters   string    `json:"letters"`
	CreatedAt time.Time `json:"createdAt"`
}

// LettersRequest is the body of compute and create.
// A nil Letters means the field was absent.
type LettersRequest struct {
	Letters *string `json:"letters"`
}

// DeleteRequest is the body of the bulk delete.
type DeleteRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// FromBands converts rule bands.
func FromBands(bands []scoring.Band) []ScoringRule {
	out := make([]ScoringRule, len(bands))
	for i, b := range bands {
		out[i] = ScoringRule{Points: b.Points, Letters: b.Letters}
	}
	return out
}

// FromRecord converts a stored record.
func FromRecord(r model.ScoreRecord) Score {
	return Score{ID: r.ID, Letters: r.Letters, Points: r.Points, CreatedAt: r.CreatedAt}
}

// FromRanked converts a ranked page.
func FromRanked(entries []model.RankedEntry) []TopScore {
	out := make([]TopScore, len(entries))
	for i, e := range entries {
		out[i] = TopScore{
			ID:        e.Record.ID,
			Rank:      e.Rank,
			Score:     e.Record.Points,
			Letters:   e.Record.Letters,
			CreatedAt: e.Record.CreatedAt,
		}
	}
	return out
}
