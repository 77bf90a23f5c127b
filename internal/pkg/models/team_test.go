package models

import "testing"

func TestTeamMatches(t *testing.T) {
	tests := []struct {
		team      string
		candidate string
		expected  bool
	}{
		{"chelsea", "FC Chelsea", true},
		{"Chelsea", "chelsea", true},
		{"Real  Madrid", "real madrid castilla", true},
		{"United", "Manchester United", true},
		{"Arsenal", "Chelsea", false},
		{"", "Chelsea", false},
		{"  ", "Chelsea", false},
		{"Chelsea", "", false},
	}

	for _, tt := range tests {
		result := TeamMatches(tt.team, tt.candidate)
		if result != tt.expected {
			t.Errorf("TeamMatches(%q, %q) = %v, want %v", tt.team, tt.candidate, result, tt.expected)
		}
	}
}

func TestSameTeam(t *testing.T) {
	tests := []struct {
		a        string
		b        string
		expected bool
	}{
		{"Chelsea", "chelsea", true},
		{" Real   Madrid ", "real madrid", true},
		{"Chelsea", "FC Chelsea", false},
		{"", "", false},
	}

	for _, tt := range tests {
		result := SameTeam(tt.a, tt.b)
		if result != tt.expected {
			t.Errorf("SameTeam(%q, %q) = %v, want %v", tt.a, tt.b, result, tt.expected)
		}
	}
}
