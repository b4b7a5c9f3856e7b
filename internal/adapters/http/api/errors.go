package api

import (
	"errors"
	"net/http"

	repository "github.com/okian/wordscore/internal/adapters/repository"
	"github.com/okian/wordscore/internal/domain/dedupe"
	"github.com/okian/wordscore/internal/domain/ranking"
	"github.com/okian/wordscore/internal/domain/scoring"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("conflict")
	ErrRateLimited = errors.New("rate limited")
)

// Error ties a failure to the handler operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	default:
		return e.Op + ": " + e.Kind.Error()
	}
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// WrapKind classifies err as kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// Wrap attaches op to err and keeps its classification.
func Wrap(op string, err error) error {
	return &Error{Op: op, Err: err}
}

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrUnsupportedLetter):
		return http.StatusBadRequest, "unsupported_letter"
	case errors.Is(err, ranking.ErrInvalidSortField):
		return http.StatusBadRequest, "invalid_sort_field"
	case errors.Is(err, ranking.ErrPageSizeExceeded):
		return http.StatusBadRequest, "page_size_exceeded"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ranking.ErrInvalidDirection),
		errors.Is(err, ranking.ErrInvalidPagination):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict), errors.Is(err, dedupe.ErrKeyInFlight), errors.Is(err, dedupe.ErrKeyReused):
		return http.StatusConflict, "conflict"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// publicMessage is the message shown to clients: the cause without the
// operation prefix. Server errors are not described.
func publicMessage(status int, err error) string {
	if status >= http.StatusInternalServerError || err == nil {
		return http.StatusText(status)
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Err != nil {
			return apiErr.Err.Error()
		}
		return apiErr.Kind.Error()
	}
	return err.Error()
}
