package models

// Venue is where the main team of a comparison panel played.
type Venue string

const (
	VenueHome Venue = "H"
	VenueAway Venue = "A"
)

// ComparisonPanel is one indirect-comparison box of the match page: the main
// team's last match against a rival, with its statistics quoted home first.
type ComparisonPanel struct {
	Team   string `json:"team"`
	Rival  string `json:"rival"`
	Result string `json:"result"`
	Line   string `json:"ah_line"`
	Venue  Venue  `json:"venue"`
	// Stats holds shots, shots on goal, attacks and dangerous attacks in
	// that order, each quoted home then away.
	Stats []StatLine `json:"stats"`
}

// DangerousAttacks returns the home and away dangerous attacks of the panel.
func (p ComparisonPanel) DangerousAttacks() (home, away string) {
	for _, s := range p.Stats {
		if s.Label == StatDangerousAttacks {
			return s.Home, s.Away
		}
	}
	return "", ""
}

// Statistic labels used by match statistics.
const (
	StatCorners          = "Corners"
	StatShots            = "Shots"
	StatShotsOnGoal      = "Shots on Goal"
	StatAttacks          = "Attacks"
	StatDangerousAttacks = "Dangerous Attacks"
	StatRedCards         = "Red Cards"
)

// HeadToHeadSummary points at the direct meetings relevant for settlement.
type HeadToHeadSummary struct {
	// Latest is the most recent meeting at any venue.
	Latest *MatchRow `json:"latest,omitempty"`
	// SameVenue is the most recent meeting with the current home side at home.
	SameVenue *MatchRow `json:"same_venue,omitempty"`
}
