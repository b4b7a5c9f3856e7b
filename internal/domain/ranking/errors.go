package ranking

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for ranking errors.
var (
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrPageSizeExceeded  = errors.New("page size exceeded")
	ErrInvalidDirection  = errors.New("invalid sort direction")
	ErrInvalidPagination = errors.New("invalid pagination")
)

// InvalidSortFieldError names a rejected sort field and the accepted ones.
type InvalidSortFieldError struct {
	Field string
	Valid []Field
}

func (e *InvalidSortFieldError) Error() string {
	names := make([]string, len(e.Valid))
	for i, f := range e.Valid {
		names[i] = string(f)
	}
	return fmt.Sprintf("invalid sort field: %s. Valid fields: %s", e.Field, strings.Join(names, ", "))
}

// Is matches ErrInvalidSortField.
func (e *InvalidSortFieldError) Is(target error) bool {
	return target == ErrInvalidSortField
}

// PageSizeExceededError reports a page size above Max.
type PageSizeExceededError struct {
	Requested int
	Max       int
}

func (e *PageSizeExceededError) Error() string {
	return fmt.Sprintf("page size %d exceeds maximum of %d", e.Requested, e.Max)
}

// Is matches ErrPageSizeExceeded.
func (e *PageSizeExceededError) Is(target error) bool {
	return target == ErrPageSizeExceeded
}
