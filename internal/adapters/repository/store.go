// Package repository defines the score store contract and an in-memory store.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
)

// Store persists score records and serves ordered pages of them.
type Store interface {
	// Save persists rec. A zero ID or CreatedAt is assigned by the store,
	// CreatedAt in UTC. Returns the stored record.
	Save(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error)

	// Get returns the record with id, or a *RecordNotFoundError.
	Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error)

	// Page returns the records of req.Page ordered by req.Orders and then by
	// id ascending. An empty Orders means ranking.DefaultOrders.
	// req must already be validated.
	Page(ctx context.Context, req ranking.SortRequest) ([]model.ScoreRecord, error)

	// DeleteByIDs removes the given records. Unknown ids are ignored.
	// Returns how many records were removed.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}
