package models

import "strings"

// TeamMatches reports whether team appears in candidate, ignoring case and
// repeated whitespace. It is a substring test: "chelsea" matches "FC Chelsea".
//
// A short club name nested in a longer one is attributed to the longer one as
// well ("United" matches "Manchester United"). Every team comparison in the
// preview goes through this function so the behaviour stays consistent.
func TeamMatches(team, candidate string) bool {
	t := normalizeTeam(team)
	if t == "" {
		return false
	}
	return strings.Contains(normalizeTeam(candidate), t)
}

// SameTeam reports whether a and b are the same name, ignoring case and
// repeated whitespace.
func SameTeam(a, b string) bool {
	na := normalizeTeam(a)
	return na != "" && na == normalizeTeam(b)
}

func normalizeTeam(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
