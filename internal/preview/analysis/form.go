// Package analysis computes the preview signals from extracted history rows.
// Every analyzer is total: rows it cannot read are skipped and an empty input
// gives a zero result.
package analysis

import (
	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

type outcome int

const (
	undecided outcome = iota
	win
	draw
	loss
)

// markOutcomes maps inline result marks to outcomes.
var markOutcomes = map[string]outcome{
	"win":      win,
	"w":        win,
	"victoria": win,
	"lose":     loss,
	"l":        loss,
	"derrota":  loss,
	"draw":     draw,
	"d":        draw,
	"empate":   draw,
}

// RecentForm tallies team's results over rows. The inline mark of a row wins
// over its score; rows whose team cannot be located or whose score cannot be
// read are not tallied. Total is the number of rows examined.
func RecentForm(rows []models.MatchRow, team string) models.FormTally {
	tally := models.FormTally{Total: len(rows)}
	for _, row := range rows {
		switch rowOutcome(row, team) {
		case win:
			tally.Wins++
		case draw:
			tally.Draws++
		case loss:
			tally.Losses++
		}
	}
	return tally
}

func rowOutcome(row models.MatchRow, team string) outcome {
	if o, ok := markOutcomes[row.Result]; ok {
		return o
	}

	home, away, ok := row.Goals()
	if !ok {
		return undecided
	}
	var own, other int
	switch {
	case models.TeamMatches(team, row.Home):
		own, other = home, away
	case models.TeamMatches(team, row.Away):
		own, other = away, home
	default:
		return undecided
	}

	switch {
	case own > other:
		return win
	case own < other:
		return loss
	default:
		return draw
	}
}

// HeadToHead tallies direct meetings from the current home side's view: a
// meeting counts as a home win when that side won, wherever it played.
func HeadToHead(rows []models.MatchRow, home string) models.HeadToHeadTally {
	var tally models.HeadToHeadTally
	for _, row := range rows {
		gh, ga, ok := row.Goals()
		if !ok {
			continue
		}
		homeAtHome := models.TeamMatches(home, row.Home)
		switch {
		case gh == ga:
			tally.Draws++
		case homeAtHome && gh > ga, !homeAtHome && ga > gh:
			tally.HomeWins++
		default:
			tally.AwayWins++
		}
	}
	return tally
}
