package models

// Classification is the failure category carried by an error-only PreviewResult.
type Classification string

const (
	InvalidInput Classification = "INVALID_INPUT"
	Transport    Classification = "TRANSPORT"
	Timeout      Classification = "TIMEOUT"
	ParseFailure Classification = "PARSE_FAILURE"
	Unexpected   Classification = "UNEXPECTED"
)

// FormTally counts a team's results over its most recent rows.
type FormTally struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
	Total  int `json:"total"`
}

// RecentForm holds the form tallies of both sides.
type RecentForm struct {
	Home FormTally `json:"home"`
	Away FormTally `json:"away"`
}

// HeadToHeadTally counts direct meetings from the current home team's point of view.
type HeadToHeadTally struct {
	HomeWins int `json:"home_wins"`
	AwayWins int `json:"away_wins"`
	Draws    int `json:"draws"`
}

// Sum returns the number of meetings counted.
func (t HeadToHeadTally) Sum() int {
	return t.HomeWins + t.AwayWins + t.Draws
}

// IndirectVerdict says which side did better against a shared opponent.
type IndirectVerdict string

const (
	HomeBetter IndirectVerdict = "home"
	AwayBetter IndirectVerdict = "away"
	Even       IndirectVerdict = "draw"
)

// IndirectSample compares both sides against one shared opponent.
type IndirectSample struct {
	Rival      string          `json:"rival"`
	HomeMargin int             `json:"home_margin"`
	AwayMargin int             `json:"away_margin"`
	Verdict    IndirectVerdict `json:"verdict"`
}

// IndirectComparison aggregates the shared-opponent samples.
type IndirectComparison struct {
	HomeBetter int              `json:"home_better"`
	AwayBetter int              `json:"away_better"`
	Draws      int              `json:"draws"`
	Samples    []IndirectSample `json:"samples"`
}

// AttackComparison is one side's dangerous attacks in its last comparable match.
type AttackComparison struct {
	Team         string `json:"team"`
	Rival        string `json:"rival"`
	Own          int    `json:"own"`
	Against      int    `json:"against"`
	Difference   int    `json:"difference"`
	VerySuperior bool   `json:"very_superior"`
}

// DangerousAttacks holds the comparison of both panels.
type DangerousAttacks struct {
	Home *AttackComparison `json:"home,omitempty"`
	Away *AttackComparison `json:"away,omitempty"`
}

// HandicapInfo describes the current line of the match. Prices and the goals
// line come from the early odds row and are "N/A" when missing.
type HandicapInfo struct {
	Line           string          `json:"ah_line"`
	Value          *float64        `json:"ah_value,omitempty"`
	Bucket         string          `json:"ah_bucket,omitempty"`
	HomePrice      string          `json:"ah_home_price"`
	AwayPrice      string          `json:"ah_away_price"`
	GoalsLine      string          `json:"goals_line"`
	OverPrice      string          `json:"goals_over_price"`
	UnderPrice     string          `json:"goals_under_price"`
	Favorite       string          `json:"favorite"`
	CoverOnLastH2H CoverageVerdict `json:"cover_on_last_h2h"`
}

// StatLine is one row of a match statistics table.
type StatLine struct {
	Label string `json:"label"`
	Home  string `json:"home"`
	Away  string `json:"away"`
}

// RecentMatch is the last league match of one side together with its stats.
type RecentMatch struct {
	MatchID string     `json:"match_id"`
	Home    string     `json:"home"`
	Away    string     `json:"away"`
	Score   string     `json:"score"`
	Date    string     `json:"date,omitempty"`
	Line    string     `json:"ah_line,omitempty"`
	Stats   []StatLine `json:"stats,omitempty"`
}

// Meeting is a match between the last rivals of both sides.
type Meeting struct {
	MatchID string     `json:"match_id,omitempty"`
	Home    string     `json:"home"`
	Away    string     `json:"away"`
	Score   string     `json:"score"`
	Line    string     `json:"ah_line,omitempty"`
	Date    string     `json:"date,omitempty"`
	Stats   []StatLine `json:"stats,omitempty"`
}

// RecentIndirect groups the last league matches of both sides and the meeting
// of their rivals.
type RecentIndirect struct {
	LastHome *RecentMatch `json:"last_home"`
	LastAway *RecentMatch `json:"last_away"`
	H2HCol3  *Meeting     `json:"h2h_col3"`
}

// RowCoverage is the verdict of one historical row under its own line.
type RowCoverage struct {
	Score   string          `json:"score"`
	Line    string          `json:"ah_line"`
	Verdict CoverageVerdict `json:"verdict"`
}

// HandicapHistory is the coverage record of one side over its recent rows.
type HandicapHistory struct {
	Covered    int           `json:"covered"`
	NotCovered int           `json:"not_covered"`
	Pushes     int           `json:"pushes"`
	Rows       []RowCoverage `json:"rows"`
}

// LineComparison flags a recent row whose line differs from the current one.
type LineComparison struct {
	CurrentLine string  `json:"current_line"`
	RowLine     string  `json:"row_line"`
	Difference  float64 `json:"difference"`
	// MoreFavourable is true when the current line is higher than the row line.
	MoreFavourable bool `json:"more_favourable"`
}

// Performance is the instrumentation attached to every successful result.
type Performance struct {
	Total    float64            `json:"total_seconds"`
	Fetch    float64            `json:"fetch_seconds"`
	Parse    float64            `json:"parse_seconds"`
	Analysis float64            `json:"analysis_seconds"`
	Merge    float64            `json:"merge_seconds"`
	Tasks    map[string]float64 `json:"tasks_seconds,omitempty"`
	CacheHit bool               `json:"cache_hit"`
	Mode     string             `json:"mode"`
}

// PreviewResult is the merged output of one preview run. On failure only
// Error and Classification are set.
type PreviewResult struct {
	MatchID          string                      `json:"match_id,omitempty"`
	HomeTeam         string                      `json:"home_team,omitempty"`
	AwayTeam         string                      `json:"away_team,omitempty"`
	League           string                      `json:"league,omitempty"`
	MatchDate        string                      `json:"match_date,omitempty"`
	MatchTime        string                      `json:"match_time,omitempty"`
	MatchDateTime    string                      `json:"match_datetime,omitempty"`
	RecentForm       *RecentForm                 `json:"recent_form,omitempty"`
	HeadToHead       *HeadToHeadTally            `json:"h2h_stats,omitempty"`
	Indirect         *IndirectComparison         `json:"h2h_indirect,omitempty"`
	DangerousAttacks *DangerousAttacks           `json:"dangerous_attacks,omitempty"`
	FavoriteAttacks  *AttackComparison           `json:"favorite_dangerous_attacks,omitempty"`
	Handicap         *HandicapInfo               `json:"handicap,omitempty"`
	RecentIndirect   *RecentIndirect             `json:"recent_indirect,omitempty"`
	HandicapHistory  map[string]HandicapHistory  `json:"handicap_history,omitempty"`
	LineComparisons  map[string][]LineComparison `json:"line_comparisons,omitempty"`
	Performance      *Performance                `json:"performance,omitempty"`

	Error          string         `json:"error,omitempty"`
	Classification Classification `json:"classification,omitempty"`
}

// Failed reports whether the result is an error-only result.
func (r PreviewResult) Failed() bool {
	return r.Error != ""
}

// ErrorResult builds an error-only result.
func ErrorResult(class Classification, msg string) PreviewResult {
	return PreviewResult{Error: msg, Classification: class}
}
