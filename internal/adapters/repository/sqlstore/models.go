package sqlstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/wordscore/internal/domain/model"
)

// scoreRow is the database shape of model.ScoreRecord.
type scoreRow struct {
	ID        uuid.UUID `db:"id"`
	Letters   string    `db:"letters"`
	Points    int       `db:"points"`
	CreatedAt time.Time `db:"created_at"`
}

func toRow(r model.ScoreRecord) scoreRow {
	return scoreRow{ID: r.ID, Letters: r.Letters, Points: r.Points, CreatedAt: r.CreatedAt}
}

func (r scoreRow) toRecord() model.ScoreRecord {
	return model.ScoreRecord{
		ID:        r.ID,
		Letters:   r.Letters,
		Points:    r.Points,
		CreatedAt: r.CreatedAt.UTC(),
	}
}
