package models

import "testing"

func TestParseScore(t *testing.T) {
	tests := []struct {
		input string
		home  int
		away  int
		ok    bool
	}{
		{"2-1", 2, 1, true},
		{"0:0", 0, 0, true},
		{" 3 - 2 ", 3, 2, true},
		{"2-1(1-0)", 2, 1, true},
		{"10-0", 10, 0, true},
		{"", 0, 0, false},
		{"?-", 0, 0, false},
		{"-1-2", 0, 0, false},
		{"a-b", 0, 0, false},
		{"3", 0, 0, false},
	}

	for _, tt := range tests {
		home, away, ok := ParseScore(tt.input)
		if ok != tt.ok || home != tt.home || away != tt.away {
			t.Errorf("ParseScore(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.input, home, away, ok, tt.home, tt.away, tt.ok)
		}
	}
}

func TestHeadToHeadTallySum(t *testing.T) {
	tally := HeadToHeadTally{HomeWins: 2, AwayWins: 1, Draws: 3}
	if got := tally.Sum(); got != 6 {
		t.Errorf("Sum() = %d, want 6", got)
	}
}

func TestErrorResult(t *testing.T) {
	r := ErrorResult(InvalidInput, "invalid match id")
	if !r.Failed() {
		t.Fatal("expected failed result")
	}
	if r.Classification != InvalidInput {
		t.Errorf("Classification = %q, want %q", r.Classification, InvalidInput)
	}
	if r.RecentForm != nil || r.HeadToHead != nil || r.Performance != nil {
		t.Error("error result must not carry analysis fields")
	}
}
