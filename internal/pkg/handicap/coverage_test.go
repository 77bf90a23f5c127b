package handicap

import (
	"testing"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		cover    Cover
		expected models.CoverageVerdict
	}{
		{
			name:     "home favourite wins by two",
			cover:    Cover{Score: "2-0", Line: -0.5, HasLine: true, Favorite: "Alpha", Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Covered,
		},
		{
			name:     "level line draw",
			cover:    Cover{Score: "1-1", Line: 0, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Push,
		},
		{
			name:     "level line away reference wins",
			cover:    Cover{Score: "0-1", Line: 0, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Beta"},
			expected: models.Covered,
		},
		{
			name:     "home loses under its own line",
			cover:    Cover{Score: "1-2", Line: -0.5, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.NotCovered,
		},
		{
			name:     "whole line exact margin pushes",
			cover:    Cover{Score: "2-1", Line: -1, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Push,
		},
		{
			name:     "line negated for away reference",
			cover:    Cover{Score: "1-1", Line: -0.5, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Beta"},
			expected: models.Covered,
		},
		{
			name:     "quarter line one goal",
			cover:    Cover{Score: "1-0", Line: -0.75, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Covered,
		},
		{
			name:     "substring reference",
			cover:    Cover{Score: "3:0", Line: -1.5, HasLine: true, Home: "FC Chelsea", Away: "Beta", Reference: "chelsea"},
			expected: models.Covered,
		},
		{
			name:     "missing line",
			cover:    Cover{Score: "2-0", Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Unknown,
		},
		{
			name:     "malformed score",
			cover:    Cover{Score: "?-", Line: -0.5, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Unknown,
		},
		{
			name:     "reference not in row",
			cover:    Cover{Score: "2-0", Line: -0.5, HasLine: true, Home: "Alpha", Away: "Beta", Reference: "Gamma"},
			expected: models.Unknown,
		},
		{
			name:     "favourite not in row",
			cover:    Cover{Score: "2-0", Line: -0.5, HasLine: true, Favorite: "Gamma", Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Unknown,
		},
		{
			name:     "favourite ignored on level line",
			cover:    Cover{Score: "2-0", Line: 0, HasLine: true, Favorite: "Gamma", Home: "Alpha", Away: "Beta", Reference: "Alpha"},
			expected: models.Covered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.cover)
			if result != tt.expected {
				t.Errorf("Classify(%+v) = %s, want %s", tt.cover, result, tt.expected)
			}
		})
	}
}

func TestFavorite(t *testing.T) {
	tests := []struct {
		line     Value
		expected string
	}{
		{0.5, "Alpha"},
		{-0.25, "Beta"},
		{0, ""},
	}

	for _, tt := range tests {
		result := Favorite(tt.line, "Alpha", "Beta")
		if result != tt.expected {
			t.Errorf("Favorite(%v) = %q, want %q", tt.line, result, tt.expected)
		}
	}
}
