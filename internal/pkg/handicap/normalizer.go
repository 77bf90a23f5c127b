// Package handicap parses Asian handicap lines, groups them into half-goal
// buckets and settles historical scores against a line.
package handicap

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const epsilon = 1e-6

// numberRegex is the only number shape a line part may take: no exponents,
// hex, underscores or bare leading dots.
var numberRegex = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)

// Value is a handicap line quoted from the home side, in goals.
// Lines produced by Parse sit on the quarter-goal grid.
type Value float64

var lineReplacer = strings.NewReplacer(
	"\u2212", "-", // minus sign
	"\uff0d", "-", // fullwidth hyphen-minus
	",", ".",
	" ", "",
	"\t", "",
	"\u00a0", "",
)

// Parse converts raw line text into a Value. It accepts an optional sign,
// comma or period decimals, unicode minus signs and split lines such as
// "0/0.5" or "-0.5/1" (mean of both parts). The second part of a split line
// inherits a leading minus: "-0.5/1" is -0.75 and "-0/0.5" is -0.25.
// ok is false for empty, placeholder ("-", "?") or unparseable text.
func Parse(text string) (Value, bool) {
	s := lineReplacer.Replace(strings.TrimSpace(text))
	if s == "" || s == "-" || s == "?" {
		return 0, false
	}

	var v float64
	if p1, p2, split := strings.Cut(s, "/"); split {
		if strings.Contains(p2, "/") {
			return 0, false
		}
		v1, ok := parseNumber(p1)
		if !ok {
			return 0, false
		}
		v2, ok := parseNumber(p2)
		if !ok {
			return 0, false
		}
		if !strings.HasPrefix(p2, "-") && v2 > 0 {
			if v1 < 0 || (strings.HasPrefix(s, "-") && v1 == 0 && (p1 == "0" || p1 == "-0")) {
				v2 = -v2
			}
		}
		v = (v1 + v2) / 2
	} else {
		n, ok := parseNumber(s)
		if !ok {
			return 0, false
		}
		v = n
	}

	return snap(v), true
}

func parseNumber(s string) (float64, bool) {
	if !numberRegex.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// snap removes floating noise around quarter-goal multiples.
func snap(v float64) Value {
	q := v * 4
	if r := math.Round(q); math.Abs(q-r) < epsilon {
		v = r / 4
	}
	if v == 0 {
		// normalise -0
		return 0
	}
	return Value(v)
}

// Format returns the canonical text of v, such that Parse(Format(v)) == v.
func Format(v Value) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

// Bucket maps v to its half-goal display bucket with exactly one decimal.
// Quarter lines go to the enclosing half: 1.25 and 1.75 both give "1.5".
// Off-grid values round to the nearest half, and a whole number within 0.26
// of a quarter line settles on the half instead (1.1 gives "1.5").
func Bucket(v Value) string {
	f := float64(v)
	if math.Abs(f) < epsilon {
		return "0.0"
	}

	sign := 1.0
	if f < 0 {
		sign = -1
	}
	a := math.Abs(f)
	whole := math.Floor(a)
	frac := a - whole

	var rounded float64
	switch {
	case frac < epsilon:
		rounded = whole
	case frac > 1-epsilon:
		rounded = whole + 1
	case near(frac, 0.25) || near(frac, 0.5) || near(frac, 0.75):
		rounded = whole + 0.5
	default:
		rounded = math.Round(a*2) / 2
		if b := math.Floor(rounded); near(rounded, b) &&
			(math.Abs(a-(b+0.25)) < 0.26 || math.Abs(a-(b+0.75)) < 0.26) {
			rounded = b + 0.5
		}
	}

	if rounded == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", sign*rounded)
}

// FormatDecimal returns the display form of raw line text: "-" when it
// cannot be parsed, "0" for a level line, and otherwise the value rounded to
// the quarter grid ("-0.25", "1.5", "2").
func FormatDecimal(text string) string {
	t := strings.TrimSpace(text)
	if t == "-" || t == "?" {
		return t
	}
	v, ok := Parse(t)
	if !ok {
		return "-"
	}
	if v == 0 {
		return "0"
	}

	sign := 1.0
	if v < 0 {
		sign = -1
	}
	a := math.Abs(float64(v))
	whole := math.Floor(a)
	frac := a - whole

	var rounded float64
	switch {
	case near(frac, 0) || near(frac, 0.25) || near(frac, 0.5) || near(frac, 0.75):
		rounded = whole + math.Round(frac*4)/4
	case frac < 0.25:
		rounded = whole
	case frac < 0.75:
		rounded = whole + 0.5
	default:
		rounded = whole + 1
	}
	return Format(snap(sign * rounded))
}

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}
