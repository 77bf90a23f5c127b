package handicap

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Value
		ok       bool
	}{
		{"0", 0, true},
		{"-0.25", -0.25, true},
		{" 1.5 ", 1.5, true},
		{"+0.75", 0.75, true},
		{"0,5", 0.5, true},
		{"−1", -1, true},
		{"－0.5", -0.5, true},
		{"0/0.5", 0.25, true},
		{"0.5/1", 0.75, true},
		{"-0.5/1", -0.75, true},
		{"-0/0.5", -0.25, true},
		{"0/-0.5", -0.25, true},
		{"-1/1.5", -1.25, true},
		{"2.0", 2, true},
		{"", 0, false},
		{"-", 0, false},
		{"?", 0, false},
		{"abc", 0, false},
		{"1/2/3", 0, false},
		{"/0.5", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1e1", 0, false},
		{"0x1p-2", 0, false},
		{"1_0", 0, false},
		{".5", 0, false},
		{"1.", 0, false},
		{"0/1e1", 0, false},
	}

	for _, tt := range tests {
		result, ok := Parse(tt.input)
		if ok != tt.ok || result != tt.expected {
			t.Errorf("Parse(%q) = (%v, %v), want (%v, %v)", tt.input, result, ok, tt.expected, tt.ok)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"0", "-0", "0.25", "-0.25", "0.5", "0/0.5", "-0/0.5", "0.5/1", "-0.5/1",
		"1", "-1.75", "2,25", "−3.5", "1/1.5", "-2/2.5", "0.3",
	}

	for _, in := range inputs {
		v, ok := Parse(in)
		if !ok {
			t.Fatalf("Parse(%q) failed", in)
		}
		again, ok := Parse(Format(v))
		if !ok || again != v {
			t.Errorf("Parse(Format(Parse(%q))) = (%v, %v), want %v (text %q)", in, again, ok, v, Format(v))
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input    Value
		expected string
	}{
		{0, "0"},
		{-0.25, "-0.25"},
		{1.5, "1.5"},
		{2, "2"},
		{-0.75, "-0.75"},
	}

	for _, tt := range tests {
		result := Format(tt.input)
		if result != tt.expected {
			t.Errorf("Format(%v) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		input    Value
		expected string
	}{
		{0, "0.0"},
		{0.25, "0.5"},
		{0.5, "0.5"},
		{0.75, "0.5"},
		{1, "1.0"},
		{1.25, "1.5"},
		{1.75, "1.5"},
		{-0.25, "-0.5"},
		{-1.25, "-1.5"},
		{-2, "-2.0"},
		{0.1, "0.5"},
		{-0.1, "-0.5"},
		{1.1, "1.5"},
		{1.05, "1.5"},
		{-2.2, "-2.5"},
		{1.76, "2.0"},
		{0.3, "0.5"},
		{1.9, "2.0"},
		{0.9, "1.0"},
		{0.2500001, "0.5"},
	}

	for _, tt := range tests {
		result := Bucket(tt.input)
		if result != tt.expected {
			t.Errorf("Bucket(%v) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"-0/0.5", "-0.25"},
		{"0.5/1", "0.75"},
		{"1", "1"},
		{"-1.5", "-1.5"},
		{"0.3", "0.5"},
		{"0.1", "0"},
		{"0.9", "1"},
		{"-", "-"},
		{"?", "?"},
		{"", "-"},
		{"garbage", "-"},
	}

	for _, tt := range tests {
		result := FormatDecimal(tt.input)
		if result != tt.expected {
			t.Errorf("FormatDecimal(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
