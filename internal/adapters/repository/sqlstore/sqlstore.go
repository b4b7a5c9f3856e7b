// Package sqlstore implements repository.Store on database/sql with goqu,
// for PostgreSQL (pgx) and SQLite (go-sqlite3).
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/wordscore/internal/adapters/repository"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
)

const scoresTable = "scores"

// Dialect names a supported SQL dialect. The values double as goqu dialect,
// goose dialect and migrations directory names.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// columns maps every sortable field to its column. Sorting by anything else
// is impossible by construction.
var columns = map[ranking.Field]string{
	ranking.FieldPoints:    "points",
	ranking.FieldCreatedAt: "created_at",
}

// Builder abstracts the goqu methods this package uses to build queries.
type Builder interface {
	From(table ...interface{}) *goqu.SelectDataset
	Insert(table interface{}) *goqu.InsertDataset
	Delete(table interface{}) *goqu.DeleteDataset
}

// Store implements repository.Store for one SQL database.
type Store struct {
	// DB is the underlying connection pool.
	DB *sql.DB
	// Builder is the goqu handle bound to DB.
	Builder Builder

	dialect Dialect
	pool    *pgxpool.Pool // set for postgres only
	now     func() time.Time
	newID   func() uuid.UUID
}

var _ repository.Store = (*Store)(nil)

// New wraps an open database. The schema must already be migrated.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		DB:      db,
		Builder: goqu.Dialect(string(dialect)).DB(db),
		dialect: dialect,
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the dialect the store was opened with.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Migrate applies the embedded migrations of the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.DB, s.dialect)
}

// Save implements repository.Store.Save.
func (s *Store) Save(ctx context.Context, rec model.ScoreRecord) (model.ScoreRecord, error) {
	if rec.ID == uuid.Nil {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	// Postgres keeps microseconds; truncating here keeps Save and Get equal.
	rec.CreatedAt = rec.CreatedAt.UTC().Truncate(time.Microsecond)

	if _, err := s.Builder.Insert(scoresTable).
		Prepared(true).
		Rows(toRow(rec)).
		Executor().ExecContext(ctx); err != nil {
		if isUniqueViolation(err) {
			return model.ScoreRecord{}, fmt.Errorf("%w: %s", repository.ErrDuplicateID, rec.ID)
		}
		return model.ScoreRecord{}, fmt.Errorf("could not insert score: %w", err)
	}
	return rec, nil
}

// Get implements repository.Store.Get.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error) {
	var row scoreRow
	found, err := s.Builder.From(scoresTable).
		Prepared(true).
		Where(goqu.I("id").Eq(id)).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return model.ScoreRecord{}, fmt.Errorf("could not fetch score: %w", err)
	}
	if !found {
		return model.ScoreRecord{}, &repository.RecordNotFoundError{ID: id}
	}
	return row.toRecord(), nil
}

// Page implements repository.Store.Page.
func (s *Store) Page(ctx context.Context, req ranking.SortRequest) ([]model.ScoreRecord, error) {
	if req.Page < 0 || req.Size < 0 {
		return nil, fmt.Errorf("%w: page=%d size=%d", ranking.ErrInvalidPagination, req.Page, req.Size)
	}
	if req.Size == 0 {
		return []model.ScoreRecord{}, nil
	}
	order, err := orderBy(req.Orders)
	if err != nil {
		return nil, err
	}

	var rows []scoreRow
	if err := s.Builder.From(scoresTable).
		Prepared(true).
		Order(order...).
		Offset(uint(req.Offset())). //nolint:gosec // Offset is in 0..math.MaxInt
		Limit(uint(req.Size)).      //nolint:gosec // checked positive above
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch scores page: %w", err)
	}

	out := make([]model.ScoreRecord, len(rows))
	for i, r := range rows {
		out[i] = r.toRecord()
	}
	return out, nil
}

// DeleteByIDs implements repository.Store.DeleteByIDs.
func (s *Store) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	res, err := s.Builder.Delete(scoresTable).
		Prepared(true).
		Where(goqu.I("id").In(keys)).
		Executor().ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not delete scores: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not count deleted scores: %w", err)
	}
	return int(n), nil
}

// Count implements repository.Store.Count.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.Builder.From(scoresTable).CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not count scores: %w", err)
	}
	return int(n), nil
}

// Close closes the database and, for postgres, the pgx pool.
func (s *Store) Close() error {
	err := s.DB.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("could not close database: %w", err)
	}
	return nil
}

// orderBy translates orders to column expressions, ending with id ASC.
func orderBy(orders []ranking.Order) ([]exp.OrderedExpression, error) {
	if len(orders) == 0 {
		orders = ranking.DefaultOrders()
	}
	out := make([]exp.OrderedExpression, 0, len(orders)+1)
	for _, o := range orders {
		col, ok := columns[o.Field]
		if !ok {
			return nil, &ranking.InvalidSortFieldError{Field: string(o.Field), Valid: ranking.ValidFields()}
		}
		if o.Direction == ranking.Desc {
			out = append(out, goqu.I(col).Desc())
		} else {
			out = append(out, goqu.I(col).Asc())
		}
	}
	return append(out, goqu.I("id").Asc()), nil
}
