package analysis

import (
	"strings"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// Indirect compares both sides through shared opponents: teams found in the
// away column of the home side's table and in the home column of the away
// side's table, in order of first appearance and capped at limit. For each
// rival the first row against it in each table gives the side's margin.
func Indirect(homeRows, awayRows []models.MatchRow, home, away string, limit int) models.IndirectComparison {
	result := models.IndirectComparison{Samples: []models.IndirectSample{}}

	awayRivals := make(map[string]bool)
	for _, row := range awayRows {
		if key := rivalKey(row.Home); key != "" {
			awayRivals[key] = true
		}
	}

	var common []string
	seen := make(map[string]bool)
	for _, row := range homeRows {
		key := rivalKey(row.Away)
		if key == "" || seen[key] || !awayRivals[key] {
			continue
		}
		seen[key] = true
		if models.SameTeam(key, home) || models.SameTeam(key, away) {
			continue
		}
		common = append(common, key)
		if limit > 0 && len(common) == limit {
			break
		}
	}

	for _, rival := range common {
		homeMargin, ok := marginAgainst(homeRows, rival)
		if !ok {
			continue
		}
		awayMargin, ok := marginAgainst(awayRows, rival)
		if !ok {
			continue
		}

		sample := models.IndirectSample{Rival: rival, HomeMargin: homeMargin, AwayMargin: awayMargin}
		switch {
		case homeMargin > awayMargin:
			sample.Verdict = models.HomeBetter
			result.HomeBetter++
		case homeMargin < awayMargin:
			sample.Verdict = models.AwayBetter
			result.AwayBetter++
		default:
			sample.Verdict = models.Even
			result.Draws++
		}
		result.Samples = append(result.Samples, sample)
	}
	return result
}

func rivalKey(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if key == "?" {
		return ""
	}
	return key
}

// marginAgainst returns the goal margin of the table's team in the first row
// played against rival with a readable score.
func marginAgainst(rows []models.MatchRow, rival string) (int, bool) {
	for _, row := range rows {
		gh, ga, ok := row.Goals()
		if !ok {
			continue
		}
		switch {
		case models.SameTeam(rival, row.Away):
			return gh - ga, true
		case models.SameTeam(rival, row.Home):
			return ga - gh, true
		}
	}
	return 0, false
}
