package analysis

import (
	"strconv"
	"strings"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// verySuperiorMargin is the dangerous-attack lead that marks a side as very
// superior in its last comparable match.
const verySuperiorMargin = 5

// DangerousAttacks compares own and rival dangerous attacks for each panel,
// oriented by the panel's venue flag, and picks the favorite's block by name.
func DangerousAttacks(panels []*models.ComparisonPanel, favorite string) (models.DangerousAttacks, *models.AttackComparison) {
	var result models.DangerousAttacks
	if len(panels) > 0 && panels[0] != nil {
		result.Home = compareAttacks(*panels[0])
	}
	if len(panels) > 1 && panels[1] != nil {
		result.Away = compareAttacks(*panels[1])
	}

	for _, block := range []*models.AttackComparison{result.Home, result.Away} {
		if block != nil && favorite != "" && strings.EqualFold(block.Team, favorite) {
			fav := *block
			return result, &fav
		}
	}
	return result, nil
}

func compareAttacks(p models.ComparisonPanel) *models.AttackComparison {
	homeText, awayText := p.DangerousAttacks()
	home := atoiOrZero(homeText)
	away := atoiOrZero(awayText)

	own, rival := home, away
	if p.Venue == models.VenueAway {
		own, rival = away, home
	}
	return &models.AttackComparison{
		Team:         p.Team,
		Rival:        p.Rival,
		Own:          own,
		Against:      rival,
		Difference:   own - rival,
		VerySuperior: own-rival >= verySuperiorMargin,
	}
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
