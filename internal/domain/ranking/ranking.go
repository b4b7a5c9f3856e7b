package ranking

import "github.com/okian/wordscore/internal/domain/model"

// FindTopScores validates req and numbers page in the order received.
// The page is expected to be ordered by the store already; it is not re-sorted.
func FindTopScores(page []model.ScoreRecord, req SortRequest) ([]model.RankedEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	out := make([]model.RankedEntry, len(page))
	for i, rec := range page {
		out[i] = model.RankedEntry{Rank: i + 1, Record: rec}
	}
	return out, nil
}
