// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
	"github.com/okian/wordscore/internal/domain/scoring"
	"github.com/okian/wordscore/pkg/logger"
)

// BasePath prefixes every score route.
const BasePath = "/api/v1/scores"

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Rules(ctx context.Context) []scoring.Band
	Compute(ctx context.Context, letters string) (int, error)

	// CreateOnce stores a scored submission. A non-empty key makes retries
	// return the first record with replayed set.
	CreateOnce(ctx context.Context, key, letters string) (rec model.ScoreRecord, replayed bool, err error)

	TopScores(ctx context.Context, req ranking.SortRequest) ([]model.RankedEntry, error)
	Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	rulesHandler       *RulesHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	limiter            *RateLimiter
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		healthHandler:      NewHealthHandler(),
		rulesHandler:       NewRulesHandler(deps, o.logger),
		scoresHandler:      NewScoresHandler(deps, o.maxLetters, o.logger),
		leaderboardHandler: NewLeaderboardHandler(deps, o.logger),
	}
	if o.rateLimitRPS > 0 {
		s.limiter = NewRateLimiter(o.rateLimitRPS, o.rateLimitBurst)
		s.limiter.TrustForwardedFor(o.trustProxy)
	}
	s.statsHandler = NewStatsHandler(statsProvider, s.limiter)
	return s
}

// Register attaches all HTTP routes to mux. ctx bounds the rate limiter's
// background cleanup.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	if s.limiter != nil {
		s.limiter.StartJanitor(ctx)
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET "+BasePath+"/rules", MetricsMiddleware(s.rulesHandler.HandleGetRules, "rules"))
	mux.HandleFunc("POST "+BasePath+"/compute", MetricsMiddleware(s.limit(s.rulesHandler.HandleCompute), "compute"))

	mux.HandleFunc("GET "+BasePath, MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("POST "+BasePath, MetricsMiddleware(s.limit(s.scoresHandler.HandleCreate), "scores"))
	mux.HandleFunc("DELETE "+BasePath, MetricsMiddleware(s.limit(s.scoresHandler.HandleDeleteMany), "scores"))
	mux.HandleFunc("GET "+BasePath+"/{id}", MetricsMiddleware(s.scoresHandler.HandleGet, "score"))
	mux.HandleFunc("DELETE "+BasePath+"/{id}", MetricsMiddleware(s.limit(s.scoresHandler.HandleDeleteOne), "score"))
}

func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Wrap(next)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Code: code, Message: publicMessage(status, err)})
}

// respondError classifies err, logs server-side failures and writes the
// error body.
func respondError(ctx context.Context, log logger.Logger, w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}
