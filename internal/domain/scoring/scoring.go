package scoring

import (
	"strings"

	"github.com/okian/wordscore/internal/domain/model"
)

// ComputeScore returns the sum of letter values in letters.
//
// Matching is case-insensitive. Empty or whitespace-only input scores 0.
// The first character outside A-Z fails with *UnsupportedLetterError.
func ComputeScore(letters string) (int, error) {
	if strings.TrimSpace(letters) == "" {
		return 0, nil
	}
	total := 0
	for _, r := range letters {
		v, ok := ValueOf(toUpperASCII(r))
		if !ok {
			return 0, &UnsupportedLetterError{Char: r}
		}
		total += v
	}
	return total, nil
}

// CreateScoredRecord normalizes letters and scores them. The returned record
// is unsaved: ID and CreatedAt are left for the store to assign.
func CreateScoredRecord(letters string) (model.ScoreRecord, error) {
	points, err := ComputeScore(letters)
	if err != nil {
		return model.ScoreRecord{}, err
	}
	return model.ScoreRecord{
		Letters: Normalize(letters),
		Points:  points,
	}, nil
}

// Normalize upper-cases letters. Blank input normalizes to "".
func Normalize(letters string) string {
	if strings.TrimSpace(letters) == "" {
		return ""
	}
	return strings.ToUpper(letters)
}

// toUpperASCII folds a-z only, so letters such as 'ı' or 'ſ' are not
// mapped onto the table by Unicode case rules.
func toUpperASCII(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
