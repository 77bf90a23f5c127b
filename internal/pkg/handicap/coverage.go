package handicap

import "github.com/Vodeneev/betpreview/internal/pkg/models"

// guardBand is the distance from zero inside which an adjusted margin counts
// as a push.
const guardBand = 0.1

// Cover describes one settlement: a final score of Home vs Away under a line
// quoted from Home's side, seen from Reference.
type Cover struct {
	Score   string
	Line    Value
	HasLine bool
	// Favorite is optional. When set with a non-zero line it must match
	// one of the sides, otherwise the row cannot be attributed.
	Favorite  string
	Home      string
	Away      string
	Reference string
}

// Classify settles c. The reference side's goal margin is added to the line
// (negated when the reference played away); above +0.1 is COVERED, below
// -0.1 is NOT_COVERED and anything in between is a PUSH.
func Classify(c Cover) models.CoverageVerdict {
	if !c.HasLine {
		return models.Unknown
	}
	homeGoals, awayGoals, ok := models.ParseScore(c.Score)
	if !ok {
		return models.Unknown
	}

	refHome, found := locate(c.Reference, c.Home, c.Away)
	if !found {
		return models.Unknown
	}
	if c.Favorite != "" && c.Line != 0 {
		if _, ok := locate(c.Favorite, c.Home, c.Away); !ok {
			return models.Unknown
		}
	}

	margin := float64(homeGoals - awayGoals)
	line := float64(c.Line)
	if !refHome {
		margin = -margin
		line = -line
	}

	adjusted := margin + line
	switch {
	case adjusted > guardBand:
		return models.Covered
	case adjusted < -guardBand:
		return models.NotCovered
	default:
		return models.Push
	}
}

// Favorite returns the favoured side for line: home for a positive line,
// away for a negative one and "" for a level line.
func Favorite(line Value, home, away string) string {
	switch {
	case line > 0:
		return home
	case line < 0:
		return away
	default:
		return ""
	}
}

// locate finds team among the two sides of a row. An exact name wins over a
// substring match.
func locate(team, home, away string) (isHome, found bool) {
	switch {
	case models.SameTeam(team, home):
		return true, true
	case models.SameTeam(team, away):
		return false, true
	case models.TeamMatches(team, home):
		return true, true
	case models.TeamMatches(team, away):
		return false, true
	default:
		return false, false
	}
}
