package models

// CoverageVerdict is the outcome of applying a handicap line to a final score.
type CoverageVerdict string

const (
	Covered    CoverageVerdict = "COVERED"
	NotCovered CoverageVerdict = "NOT_COVERED"
	Push       CoverageVerdict = "PUSH"
	Unknown    CoverageVerdict = "UNKNOWN"
)
