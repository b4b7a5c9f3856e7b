package api

import (
	"context"
	"net/http"

	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/ranking"
	"github.com/okian/wordscore/internal/domain/types"
	"github.com/okian/wordscore/pkg/logger"
)

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	TopScores(ctx context.Context, req ranking.SortRequest) ([]model.RankedEntry, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps LeaderboardDependencies
	log  logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, log logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, log: log}
}

// HandleGetLeaderboard handles GET /api/v1/scores?page=P&size=N&sort=field,dir
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	req, err := parseSortRequest(r.URL.Query())
	if err != nil {
		respondError(r.Context(), h.log, w, Wrap(op, err))
		return
	}

	entries, err := h.deps.TopScores(r.Context(), req)
	if err != nil {
		respondError(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromRanked(entries))
}
