package sapi

import (
	"math"
	"strconv"
	"strings"
)

// credentialTokens are dropped from names. Matching is per whole token after
// punctuation removal, so "M.D." and "MD" both go but "Donald" stays.
var credentialTokens = map[string]struct{}{
	"MD": {},
	"DO": {},
}

var punctuation = strings.NewReplacer(",", " ", ".", "")

// Normalize canonicalizes a provider name so that names exported by the
// scheduler ("Smith, John MD") and by billing ("Smith John") compare equal.
// It never fails; a name made only of credentials normalizes to "".
func Normalize(raw string) string {
	fields := strings.Fields(punctuation.Replace(raw))
	kept := fields[:0]
	for _, f := range fields {
		if _, ok := credentialTokens[strings.ToUpper(f)]; ok {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// NameKey is the case-insensitive join key of a provider name.
func NameKey(raw string) string {
	return strings.ToLower(Normalize(raw))
}

// SeatKey is the join key of a seat label: trimmed, inner whitespace collapsed, case-folded.
func SeatKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// ParseNumber parses a spreadsheet number, tolerating thousands separators and
// a currency sign. Blank cells, NaN and infinities are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ',', '$', ' ':
			return -1
		default:
			return r
		}
	}, s)
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
