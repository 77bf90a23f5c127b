package document

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// rowDateRegex matches dd-mm-yyyy inside the timeData span.
var rowDateRegex = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)

var undated = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

func rowDate(s string) time.Time {
	m := rowDateRegex.FindStringSubmatch(s)
	if m == nil {
		return undated
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// newestFirst orders rows by date, most recent first. Rows without a date
// sort last; equal dates keep document order.
func newestFirst(rows []models.MatchRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rowDate(rows[i].Date).After(rowDate(rows[j].Date))
	})
}

// ReadH2H finds the latest direct meeting and the latest one played with home
// at home. Rows with an unreadable score are ignored.
func ReadH2H(doc *goquery.Document, home, away string) models.HeadToHeadSummary {
	var summary models.HeadToHeadSummary
	if home == "" || away == "" {
		return summary
	}

	var meetings []models.MatchRow
	for _, row := range Rows(doc, HeadToHeadTable, 0) {
		if row.Home == "" || row.Away == "" {
			continue
		}
		if _, _, ok := row.Goals(); !ok {
			continue
		}
		meetings = append(meetings, row)
	}
	if len(meetings) == 0 {
		return summary
	}

	newestFirst(meetings)
	latest := meetings[0]
	summary.Latest = &latest
	for i := range meetings {
		if models.SameTeam(meetings[i].Home, home) && models.SameTeam(meetings[i].Away, away) {
			sameVenue := meetings[i]
			summary.SameVenue = &sameVenue
			break
		}
	}
	return summary
}

// LastMatchInLeague returns the most recent row of tableID in which team
// played at home (atHome) or away, restricted to leagueID when it is set.
func LastMatchInLeague(doc *goquery.Document, tableID, team, leagueID string, atHome bool) *models.MatchRow {
	var candidates []models.MatchRow
	for _, row := range Rows(doc, tableID, 0) {
		if row.Home == "" || row.Away == "" {
			continue
		}
		if leagueID != "" && row.LeagueID != leagueID {
			continue
		}
		if atHome && models.TeamMatches(team, row.Home) || !atHome && models.TeamMatches(team, row.Away) {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	newestFirst(candidates)
	last := candidates[0]
	return &last
}

// KeyRival is the rival of a flagged key match in one side's history table.
type KeyRival struct {
	KeyMatchID string
	RivalID    string
	RivalName  string
}

// KeyMatch finds the first row flagged vs="1" in tableID (restricted to
// leagueID when set) and returns its rival: the away side in the home
// table and the home side in the away table.
func KeyMatch(doc *goquery.Document, tableID, leagueID string) (KeyRival, bool) {
	for _, row := range Rows(doc, tableID, 0) {
		if leagueID != "" && row.LeagueID != leagueID {
			continue
		}
		if !row.KeyMatch || row.MatchID == "" {
			continue
		}
		rival := KeyRival{KeyMatchID: row.MatchID}
		if tableID == HomeTable {
			rival.RivalID, rival.RivalName = row.AwayID, row.Away
		} else {
			rival.RivalID, rival.RivalName = row.HomeID, row.Home
		}
		if rival.RivalID == "" {
			continue
		}
		return rival, true
	}
	return KeyRival{}, false
}

// FindMeeting looks in the away table of a key match page for a finished match
// between teams a and b, in either order.
func FindMeeting(doc *goquery.Document, a, b string) (*models.MatchRow, bool) {
	if a == "" || b == "" {
		return nil, false
	}
	for _, row := range Rows(doc, AwayTable, 0) {
		if row.HomeID == "" || row.AwayID == "" {
			continue
		}
		if !(row.HomeID == a && row.AwayID == b || row.HomeID == b && row.AwayID == a) {
			continue
		}
		if !strings.Contains(row.Score, "-") {
			return nil, false
		}
		if _, _, ok := row.Goals(); !ok {
			return nil, false
		}
		meeting := row
		return &meeting, true
	}
	return nil, false
}
