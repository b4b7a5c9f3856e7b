package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/okian/wordscore/internal/domain/model"
	"github.com/okian/wordscore/internal/domain/types"
	"github.com/okian/wordscore/pkg/logger"
)

// IdempotencyKeyHeader names the header that makes POST /api/v1/scores
// safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 255

// ScoresDependencies defines the operations on stored scores.
type ScoresDependencies interface {
	CreateOnce(ctx context.Context, key, letters string) (rec model.ScoreRecord, replayed bool, err error)
	Get(ctx context.Context, id uuid.UUID) (model.ScoreRecord, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int, error)
}

// ScoresHandler handles creation, lookup and deletion of scores.
type ScoresHandler struct {
	deps       ScoresDependencies
	maxLetters int
	log        logger.Logger
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoresDependencies, maxLetters int, log logger.Logger) *ScoresHandler {
	return &ScoresHandler{deps: deps, maxLetters: maxLetters, log: log}
}

// HandleCreate handles POST /api/v1/scores. A replayed Idempotency-Key
// answers 200 with the original record instead of 201.
func (h *ScoresHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_score"
	ctx := r.Context()

	var req types.LettersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.validate(req); err != nil {
		respondError(ctx, h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		respondError(ctx, h.log, w, WrapKind(op, ErrBadRequest,
			fmt.Errorf("%s must be at most %d bytes", IdempotencyKeyHeader, maxIdempotencyKeyLen)))
		return
	}

	rec, replayed, err := h.deps.CreateOnce(ctx, key, *req.Letters)
	if err != nil {
		respondError(ctx, h.log, w, Wrap(op, err))
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	} else {
		w.Header().Set("Location", BasePath+"/"+rec.ID.String())
	}
	writeJSON(w, status, types.FromRecord(rec))
}

func (h *ScoresHandler) validate(req types.LettersRequest) error {
	switch {
	case req.Letters == nil:
		return errors.New("letters is required")
	case strings.TrimSpace(*req.Letters) == "":
		return errors.New("letters must not be blank")
	case utf8.RuneCountInString(*req.Letters) > h.maxLetters:
		return fmt.Errorf("letters must be at most %d characters", h.maxLetters)
	}
	return nil
}

// HandleGet handles GET /api/v1/scores/{id}.
func (h *ScoresHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_score"
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Get(r.Context(), id)
	if err != nil {
		respondError(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.FromRecord(rec))
}

// HandleDeleteOne handles DELETE /api/v1/scores/{id}. Unknown ids succeed.
func (h *ScoresHandler) HandleDeleteOne(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_score"
	id, err := pathID(r)
	if err != nil {
		respondError(r.Context(), h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.delete(w, r, op, []uuid.UUID{id})
}

// HandleDeleteMany handles DELETE /api/v1/scores with {"ids": [...]}.
func (h *ScoresHandler) HandleDeleteMany(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_scores"
	var req types.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(r.Context(), h.log, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.IDs == nil {
		respondError(r.Context(), h.log, w, WrapKind(op, ErrBadRequest, errors.New("ids is required")))
		return
	}
	h.delete(w, r, op, req.IDs)
}

func (h *ScoresHandler) delete(w http.ResponseWriter, r *http.Request, op string, ids []uuid.UUID) {
	if _, err := h.deps.DeleteByIDs(r.Context(), ids); err != nil {
		respondError(r.Context(), h.log, w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
