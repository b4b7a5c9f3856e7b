package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/wordscore/internal/domain/ranking"
)

// parseSortRequest reads page, size (or its alias limit) and repeated
// sort=field[,dir] parameters. Absent values stay zero for the service to
// default. Field names are checked later by SortRequest.Validate.
func parseSortRequest(q url.Values) (ranking.SortRequest, error) {
	var req ranking.SortRequest
	var err error

	if req.Page, err = nonNegativeInt(q, "page"); err != nil {
		return ranking.SortRequest{}, err
	}
	sizeKey := "size"
	if !q.Has(sizeKey) {
		sizeKey = "limit"
	}
	if req.Size, err = nonNegativeInt(q, sizeKey); err != nil {
		return ranking.SortRequest{}, err
	}

	for _, raw := range q["sort"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		o, err := ranking.ParseOrder(raw)
		if err != nil {
			return ranking.SortRequest{}, err
		}
		req.Orders = append(req.Orders, o)
	}
	return req, nil
}

func nonNegativeInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrBadRequest, key, raw)
	}
	return n, nil
}
