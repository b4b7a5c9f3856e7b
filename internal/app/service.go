// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/wordscore/internal/adapters/repository"
	"github.com/okian/wordscore/internal/domain/dedupe"
	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
	"github.com/okian/wordscore/internal/domain/scoring"
	"github.com/okian/wordscore/pkg/logger"
	"github.com/okian/wordscore/pkg/metrics"
)

// Service implements the API dependencies for the word score leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	idempotencyCacheSize int
	defaultPageSize      int

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the score store. The in-memory store is used otherwise.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithIdempotencyCacheSize bounds the number of remembered Idempotency-Keys.
func WithIdempotencyCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.idempotencyCacheSize = size
		}
	}
}

// WithDefaultPageSize sets the leaderboard page size used when none is given.
func WithDefaultPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 && size <= ranking.MaxPageSize {
			s.defaultPageSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		idempotencyCacheSize: 10_000,
		defaultPageSize:      ranking.DefaultPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.idempotencyCacheSize))

	return s
}

// Start marks the service as running and publishes the initial record count.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateRepositoryRecordsTotal(n)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "word score service started",
		logger.Int("records", n),
		logger.Int("idempotencyCacheSize", s.idempotencyCacheSize),
		logger.Int("defaultPageSize", s.defaultPageSize),
	)

	return nil
}

// Stop closes the store. The service cannot be restarted afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "word score service stopped")
}

// Rules returns the letter value bands.
func (s *Service) Rules(_ context.Context) []scoring.Band {
	return scoring.Rules()
}

// Compute scores letters without storing anything.
func (s *Service) Compute(ctx context.Context, letters string) (int, error) {
	points, err := scoring.ComputeScore(letters)
	if err != nil {
		s.recordScoringError(ctx, letters, err)
		return 0, err
	}
	metrics.RecordScoreComputed(points)
	return points, nil
}

// Create scores letters and stores the resulting record.
func (s *Service) Create(ctx context.Context, letters string) (model.ScoreRecord, error) {
	rec, err := scoring.CreateScoredRecord(letters)
	if err != nil {
		s.recordScoringError(ctx, letters, err)
		return model.ScoreRecord{}, err
	}
	metrics.RecordScoreComputed(rec.Points)

	start := time.Now()
	saved, err := s.store.Save(ctx, rec)
	metrics.RecordRepositoryUpdateLatency(msSince(start))
	if err != nil {
		metrics.RecordRepositoryError("save")
		s.log().Error(ctx, "saving score failed", logger.String("letters", rec.Letters), logger.Error(err))
		return model.ScoreRecord{}, err
	}

	metrics.RecordScoreCreated()
	s.refreshCount(ctx)
	s.log().Debug(ctx, "score created",
		logger.String("id", saved.ID.String()),
		logger.String("letters", saved.Letters),
		logger.Int("points", saved.Points),
	)
	return saved, nil
}

// CreateOnce is Create guarded by an idempotency key. A key seen before
// returns the record its first request created, with replayed set, as long
// as letters match it; otherwise it fails with ErrIdempotencyKeyReused. A key
// whose first request has not finished yet fails with ErrSubmissionInFlight.
// An empty key behaves like Create.
func (s *Service) CreateOnce(ctx context.Context, key, letters string) (rec model.ScoreRecord, replayed bool, err error) {
	if key == "" {
		rec, err = s.Create(ctx, letters)
		return rec, false, err
	}

	if s.deduper.SeenAndRecord(ctx, key) {
		id, ok := s.deduper.Resolve(ctx, key)
		if !ok {
			return model.ScoreRecord{}, false, ErrSubmissionInFlight
		}
		rec, err = s.Get(ctx, id)
		if err != nil {
			return model.ScoreRecord{}, false, err
		}
		if rec.Letters != scoring.Normalize(letters) {
			s.log().Debug(ctx, "idempotency key reused", logger.String("key", key), logger.String("id", id.String()))
			return model.ScoreRecord{}, false, ErrIdempotencyKeyReused
		}
		metrics.RecordIdempotentReplay()
		s.log().Debug(ctx, "idempotent replay", logger.String("key", key), logger.String("id", id.String()))
		return rec, true, nil
	}

	rec, err = s.Create(ctx, letters)
	if err != nil {
		// Let the client retry with the same key.
		s.deduper.Unrecord(ctx, key)
		return model.ScoreRecord{}, false, err
	}
	s.deduper.Bind(ctx, key, rec.ID)
	return rec, false, nil
}

// TopScores returns one ranked leaderboard page. Missing orders and a zero
// size take the defaults before validation.
func (s *Service) TopScores(ctx context.Context, req ranking.SortRequest) ([]model.RankedEntry, error) {
	req = req.WithDefaults(s.defaultPageSize)
	if err := req.Validate(); err != nil {
		metrics.RecordLeaderboardRejected(rejectReason(err))
		return nil, err
	}

	start := time.Now()
	page, err := s.store.Page(ctx, req)
	metrics.RecordRepositoryQueryLatency(msSince(start))
	if err != nil {
		metrics.RecordRepositoryError("page")
		s.log().Error(ctx, "reading leaderboard failed", logger.Error(err))
		return nil, err
	}

	entries, err := ranking.FindTopScores(page, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordLeaderboardQuery()
	return entries, nil
}

// Get returns one stored record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error) {
	start := time.Now()
	rec, err := s.store.Get(ctx, id)
	metrics.RecordRepositoryQueryLatency(msSince(start))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		metrics.RecordRepositoryError("get")
	}
	return rec, err
}

// DeleteByIDs removes the given records. Unknown ids are ignored.
func (s *Service) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error) {
	start := time.Now()
	n, err := s.store.DeleteByIDs(ctx, ids)
	metrics.RecordRepositoryUpdateLatency(msSince(start))
	if err != nil {
		metrics.RecordRepositoryError("delete")
		s.log().Error(ctx, "deleting scores failed", logger.Int("ids", len(ids)), logger.Error(err))
		return 0, err
	}

	metrics.RecordScoresDeleted(n)
	s.refreshCount(ctx)
	s.log().Debug(ctx, "scores deleted", logger.Int("requested", len(ids)), logger.Int("deleted", n))
	return n, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"idempotencyCacheSize": s.idempotencyCacheSize,
		"idempotencyKeys":      s.deduper.Size(),
		"defaultPageSize":      s.defaultPageSize,
		"maxPageSize":          ranking.MaxPageSize,
	}

	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["totalScores"] = n
			metrics.UpdateRepositoryRecordsTotal(n)
		}
	}

	return stats
}

func (s *Service) refreshCount(ctx context.Context) {
	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateRepositoryRecordsTotal(n)
	}
}

func (s *Service) recordScoringError(ctx context.Context, letters string, err error) {
	var unsupported *scoring.UnsupportedLetterError
	if errors.As(err, &unsupported) {
		metrics.RecordUnsupportedLetter()
		s.log().Debug(ctx, "unsupported letter",
			logger.String("letters", letters),
			logger.String("char", string(unsupported.Char)),
		)
	}
}

// log tolerates use before Start.
func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ranking.ErrInvalidSortField):
		return "invalid_sort_field"
	case errors.Is(err, ranking.ErrPageSizeExceeded):
		return "page_size_exceeded"
	case errors.Is(err, ranking.ErrInvalidDirection):
		return "invalid_direction"
	default:
		return "invalid_pagination"
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
