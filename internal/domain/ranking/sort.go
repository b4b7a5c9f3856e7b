// Package ranking validates leaderboard queries and numbers result pages.
package ranking

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/okian/wordscore/internal/domain/model"
)

// Pagination limits.
const (
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// Field is a sortable record attribute.
type Field string

// Sortable fields. Nothing else is accepted for ordering.
const (
	FieldPoints    Field = "points"
	FieldCreatedAt Field = "createdAt"
)

// Direction is the ordering direction of one Order.
type Direction int

// Directions.
const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// Order is one sort key.
type Order struct {
	Field     Field
	Direction Direction
}

// ParseOrder parses "field" or "field,direction". The direction defaults to
// ascending. The field name is not checked here; Validate does that.
func ParseOrder(s string) (Order, error) {
	name, dir, hasDir := strings.Cut(s, ",")
	o := Order{Field: Field(strings.TrimSpace(name)), Direction: Asc}
	if hasDir {
		d, err := ParseDirection(dir)
		if err != nil {
			return Order{}, err
		}
		o.Direction = d
	}
	return o, nil
}

type comparator func(a, b model.ScoreRecord) int

var comparators = map[Field]comparator{
	FieldPoints: func(a, b model.ScoreRecord) int {
		return cmp.Compare(a.Points, b.Points)
	},
	FieldCreatedAt: func(a, b model.ScoreRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	},
}

// ValidFields lists the sortable fields in display order.
func ValidFields() []Field {
	return []Field{FieldPoints, FieldCreatedAt}
}

// IsValid reports whether f is a sortable field.
func (f Field) IsValid() bool {
	_, ok := comparators[f]
	return ok
}

// DefaultOrders is the leaderboard ordering: points DESC, createdAt ASC.
func DefaultOrders() []Order {
	return []Order{
		{Field: FieldPoints, Direction: Desc},
		{Field: FieldCreatedAt, Direction: Asc},
	}
}

// SortRequest is a caller-supplied ordering plus pagination.
// Page is 0-based.
type SortRequest struct {
	Orders []Order
	Page   int
	Size   int
}

// WithDefaults fills an empty ordering and a zero size.
func (r SortRequest) WithDefaults(defaultSize int) SortRequest {
	if len(r.Orders) == 0 {
		r.Orders = DefaultOrders()
	}
	if r.Size == 0 {
		if defaultSize <= 0 {
			defaultSize = DefaultPageSize
		}
		r.Size = defaultSize
	}
	return r
}

// Validate checks fields first, then the page size.
func (r SortRequest) Validate() error {
	for _, o := range r.Orders {
		if !o.Field.IsValid() {
			return &InvalidSortFieldError{Field: string(o.Field), Valid: ValidFields()}
		}
		if o.Direction != Asc && o.Direction != Desc {
			return fmt.Errorf("%w: %d", ErrInvalidDirection, o.Direction)
		}
	}
	if r.Size > MaxPageSize {
		return &PageSizeExceededError{Requested: r.Size, Max: MaxPageSize}
	}
	if r.Size < 0 || r.Page < 0 {
		return fmt.Errorf("%w: page=%d size=%d", ErrInvalidPagination, r.Page, r.Size)
	}
	if r.Size > 0 && r.Page > math.MaxInt/r.Size {
		return fmt.Errorf("%w: page %d is out of range", ErrInvalidPagination, r.Page)
	}
	return nil
}

// Offset is the number of records before the requested page. It saturates
// at math.MaxInt and is 0 for negative page or size.
func (r SortRequest) Offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Compare returns a comparator for orders, falling back to id ascending so
// that every ordering is total. Unknown fields are skipped; validate first.
func Compare(orders []Order) func(a, b model.ScoreRecord) int {
	return func(a, b model.ScoreRecord) int {
		for _, o := range orders {
			c, ok := comparators[o.Field]
			if !ok {
				continue
			}
			if v := c(a, b); v != 0 {
				if o.Direction == Desc {
					return -v
				}
				return v
			}
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	}
}
