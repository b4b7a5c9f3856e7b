// Package scoring holds the fixed letter-value table and the score calculator.
package scoring

import (
	"slices"
	"strings"
)

// letterValues maps 'A'..'Z' (by offset) to points. Read-only after init.
var letterValues = [26]int{
	'A' - 'A': 1, 'E' - 'A': 1, 'I' - 'A': 1, 'O' - 'A': 1, 'U' - 'A': 1,
	'L' - 'A': 1, 'N' - 'A': 1, 'S' - 'A': 1, 'T' - 'A': 1, 'R' - 'A': 1,
	'D' - 'A': 2, 'G' - 'A': 2,
	'B' - 'A': 3, 'C' - 'A': 3, 'M' - 'A': 3, 'P' - 'A': 3,
	'F' - 'A': 4, 'H' - 'A': 4, 'V' - 'A': 4, 'W' - 'A': 4, 'Y' - 'A': 4,
	'K' - 'A': 6,
	'J' - 'A': 8, 'X' - 'A': 8,
	'Q' - 'A': 10, 'Z' - 'A': 10,
}

// Band groups the letters that share one point value.
type Band struct {
	Points  int
	Letters string // alphabetical
}

// rules is derived once from letterValues.
var rules = buildRules()

// ValueOf returns the point value of an uppercase letter A-Z.
// ok is false for anything else, lowercase included.
func ValueOf(letter rune) (points int, ok bool) {
	if letter < 'A' || letter > 'Z' {
		return 0, false
	}
	return letterValues[letter-'A'], true
}

// Rules returns the rule bands ordered by ascending points.
// The returned slice is a copy and may be modified by the caller.
func Rules() []Band {
	return slices.Clone(rules)
}

func buildRules() []Band {
	byPoints := make(map[int]*strings.Builder)
	var points []int
	for i, v := range letterValues {
		b, ok := byPoints[v]
		if !ok {
			b = &strings.Builder{}
			byPoints[v] = b
			points = append(points, v)
		}
		// i walks A..Z so letters come out sorted
		b.WriteByte(byte('A' + i))
	}
	slices.Sort(points)

	out := make([]Band, 0, len(points))
	for _, p := range points {
		out = append(out, Band{Points: p, Letters: byPoints[p].String()})
	}
	return out
}
