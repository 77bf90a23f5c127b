package models

import (
	"strconv"
	"strings"
)

// ParseScore parses a final score such as "2-1", "2:1", "2 - 1" or
// "2-1(1-0)" (half-time part ignored). Both sides must be non-negative
// integers.
func ParseScore(text string) (home, away int, ok bool) {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	sep := strings.IndexAny(s, "-:")
	if sep <= 0 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil || h < 0 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil || a < 0 {
		return 0, 0, false
	}
	return h, a, true
}
