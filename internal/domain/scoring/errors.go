package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors.
var (
	ErrUnsupportedLetter = errors.New("unsupported letter")
)

// UnsupportedLetterError names the first character without a point value.
type UnsupportedLetterError struct {
	Char rune
}

func (e *UnsupportedLetterError) Error() string {
	return fmt.Sprintf("unsupported letter: %q", e.Char)
}

// Is matches ErrUnsupportedLetter.
func (e *UnsupportedLetterError) Is(target error) bool {
	return target == ErrUnsupportedLetter
}
