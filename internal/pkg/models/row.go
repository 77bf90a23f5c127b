package models

// MatchRow is one historical match extracted from a table of the match page.
type MatchRow struct {
	// Index is the position of the row inside its table.
	Index int `json:"index"`
	// MatchID is the source match id carried by the row ("index" attribute).
	MatchID  string `json:"match_id,omitempty"`
	LeagueID string `json:"league_id,omitempty"`
	Date     string `json:"date,omitempty"`
	Home     string `json:"home"`
	Away     string `json:"away"`
	HomeID   string `json:"home_id,omitempty"`
	AwayID   string `json:"away_id,omitempty"`
	Score    string `json:"score"`
	Handicap string `json:"handicap,omitempty"`
	// Result is the inline win/draw/lose mark of the row, lower-cased, if any.
	Result string `json:"result,omitempty"`
	// KeyMatch is set when the row is flagged as the reference meeting (vs="1").
	KeyMatch bool `json:"key_match,omitempty"`
}

// Goals parses the row score.
func (r MatchRow) Goals() (home, away int, ok bool) {
	return ParseScore(r.Score)
}
