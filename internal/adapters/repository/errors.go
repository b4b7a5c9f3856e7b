package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("score record not found")
	ErrDuplicateID = errors.New("score record id already exists")
	ErrClosed      = errors.New("store closed")
)

// RecordNotFoundError reports a lookup by id that found nothing.
type RecordNotFoundError struct {
	ID uuid.UUID
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("score record not found: %s", e.ID)
}

// Is matches ErrNotFound.
func (e *RecordNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
