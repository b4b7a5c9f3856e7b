package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/wordscore/internal/domain/scoring"
	"github.com/okian/wordscore/internal/domain/types"
	"github.com/okian/wordscore/pkg/logger"
)

// RulesDependencies defines the scoring operations that do not store anything.
type RulesDependencies interface {
	Rules(ctx context.Context) []scoring.Band
	Compute(ctx context.Context, letters string) (int, error)
}

// RulesHandler serves the letter table and compute-only scoring.
type RulesHandler struct {
	deps RulesDependencies
	log  logger.Logger
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps RulesDependencies, log logger.Logger) *RulesHandler {
	return &RulesHandler{deps: deps, log: log}
}

// HandleGetRules handles GET /api/v1/scores/rules.
func (h *RulesHandler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.FromBands(h.deps.Rules(r.Context())))
}

// HandleCompute handles POST /api/v1/scores/compute. An absent or blank
// letters field scores 0.
func (h *RulesHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.compute"
	var req types.LettersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	letters := ""
	if req.Letters != nil {
		letters = *req.Letters
	}

	points, err := h.deps.Compute(r.Context(), letters)
	if err != nil {
		respondError(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.ComputedScore{Letters: scoring.Normalize(letters), Score: points})
}
