package analysis

import (
	"math"

	"github.com/Vodeneev/betpreview/internal/pkg/handicap"
	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// lineShift is the smallest line difference reported by LineComparisons.
const lineShift = 0.25

// HandicapHistory settles each row against its own line from team's side.
// Rows without a readable line or score are skipped.
func HandicapHistory(rows []models.MatchRow, team string) models.HandicapHistory {
	history := models.HandicapHistory{Rows: []models.RowCoverage{}}
	for _, row := range rows {
		line, ok := handicap.Parse(row.Handicap)
		if !ok {
			continue
		}
		verdict := handicap.Classify(handicap.Cover{
			Score:     row.Score,
			Line:      line,
			HasLine:   true,
			Home:      row.Home,
			Away:      row.Away,
			Reference: team,
		})
		if verdict == models.Unknown {
			continue
		}

		switch verdict {
		case models.Covered:
			history.Covered++
		case models.NotCovered:
			history.NotCovered++
		case models.Push:
			history.Pushes++
		}
		history.Rows = append(history.Rows, models.RowCoverage{
			Score:   row.Score,
			Line:    handicap.FormatDecimal(row.Handicap),
			Verdict: verdict,
		})
	}
	return history
}

// LineComparisons reports rows whose line differs from current by more than
// a quarter goal.
func LineComparisons(rows []models.MatchRow, current handicap.Value) []models.LineComparison {
	comparisons := []models.LineComparison{}
	currentText := handicap.FormatDecimal(handicap.Format(current))
	for _, row := range rows {
		line, ok := handicap.Parse(row.Handicap)
		if !ok {
			continue
		}
		diff := float64(current - line)
		if math.Abs(diff) <= lineShift {
			continue
		}
		comparisons = append(comparisons, models.LineComparison{
			CurrentLine:    currentText,
			RowLine:        handicap.FormatDecimal(row.Handicap),
			Difference:     diff,
			MoreFavourable: diff > 0,
		})
	}
	return comparisons
}

// LastH2HCover settles the current line on the latest direct meeting, the
// one played at the same venue first, otherwise the latest at any venue.
// On a non-level line the favorite must cover the line's size; on a level
// line the current home side just needs to win.
func LastH2HCover(h2h models.HeadToHeadSummary, line handicap.Value, hasLine bool, favorite, home string) models.CoverageVerdict {
	meeting := h2h.SameVenue
	if meeting == nil {
		meeting = h2h.Latest
	}
	if meeting == nil || !hasLine {
		return models.Unknown
	}

	cover := handicap.Cover{
		Score:   meeting.Score,
		HasLine: true,
		Home:    meeting.Home,
		Away:    meeting.Away,
	}
	if line == 0 {
		cover.Reference = home
		return handicap.Classify(cover)
	}
	if favorite == "" {
		return models.Unknown
	}

	size := handicap.Value(math.Abs(float64(line)))
	cover.Reference = favorite
	cover.Favorite = favorite
	// Line is quoted from the meeting's home side.
	if models.TeamMatches(favorite, meeting.Home) {
		cover.Line = -size
	} else {
		cover.Line = size
	}
	return handicap.Classify(cover)
}
