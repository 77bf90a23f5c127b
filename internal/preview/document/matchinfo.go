package document

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MatchInfo is read from the page's `var _matchInfo = {...}` script.
type MatchInfo struct {
	HomeID     string
	AwayID     string
	LeagueID   string
	HomeName   string
	AwayName   string
	LeagueName string
	// Date is YYYY-MM-DD and Time HH:MM when the kickoff could be read.
	Date string
	Time string
}

// DateTime joins Date and Time.
func (m MatchInfo) DateTime() string {
	return strings.TrimSpace(m.Date + " " + m.Time)
}

const matchInfoMarker = "var _matchInfo = "

var (
	homeIDRegex     = regexp.MustCompile(`hId:\s*parseInt\('(\d+)'\)`)
	awayIDRegex     = regexp.MustCompile(`gId:\s*parseInt\('(\d+)'\)`)
	leagueIDRegex   = regexp.MustCompile(`sclassId:\s*parseInt\('(\d+)'\)`)
	homeNameRegex   = regexp.MustCompile(`hName:\s*'([^']*)'`)
	awayNameRegex   = regexp.MustCompile(`gName:\s*'([^']*)'`)
	leagueNameRegex = regexp.MustCompile(`lName:\s*'([^']*)'`)
	matchTimeRegex  = regexp.MustCompile(`matchTime:\s*'([^']+)'`)
	startDateRegex  = regexp.MustCompile(`startDate:\s*'([^']+)'`)
	doorTimeRegex   = regexp.MustCompile(`doorTime:\s*'([^']+)'`)
	clockRegex      = regexp.MustCompile(`^(\d{2}):(\d{2})`)
)

// matchTimeLayouts are tried in order, e.g. "9/9/2025 5:00:00 PM".
var matchTimeLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ReadMatchInfo reads the match script. ok is false when the page carries no
// such script.
func ReadMatchInfo(doc *goquery.Document) (MatchInfo, bool) {
	script := matchInfoScript(doc)
	if script == "" {
		return MatchInfo{}, false
	}

	info := MatchInfo{
		HomeID:     find(homeIDRegex, script),
		AwayID:     find(awayIDRegex, script),
		LeagueID:   find(leagueIDRegex, script),
		HomeName:   find(homeNameRegex, script),
		AwayName:   find(awayNameRegex, script),
		LeagueName: find(leagueNameRegex, script),
	}
	info.Date, info.Time = kickoff(script)
	return info, true
}

func matchInfoScript(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		body := s.Text()
		if strings.Contains(body, matchInfoMarker) {
			script = body
			return false
		}
		return true
	})
	return script
}

// kickoff prefers the full matchTime and falls back to startDate + doorTime.
func kickoff(script string) (date, clock string) {
	if raw := find(matchTimeRegex, script); raw != "" {
		for _, layout := range matchTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format("2006-01-02"), t.Format("15:04")
			}
		}
	}
	date = find(startDateRegex, script)
	if date == "" {
		return "", ""
	}
	if m := clockRegex.FindStringSubmatch(find(doorTimeRegex, script)); m != nil {
		clock = m[1] + ":" + m[2]
	}
	return date, clock
}

func find(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "'", "")
}

// InitialOdds is the early Bet365 line of the match.
type InitialOdds struct {
	AHHome     string
	AHLine     string
	AHAway     string
	GoalsOver  string
	GoalsLine  string
	GoalsUnder string
}

const notAvailable = "N/A"

// initialOddsSelector matches the Bet365 early-odds row under either of its
// two company ids.
const initialOddsSelector = `tr#tr_o_1_8[name="earlyOdds"], tr#tr_o_1_31[name="earlyOdds"]`

// ReadInitialOdds reads the early Bet365 odds row. Missing values are "N/A".
func ReadInitialOdds(doc *goquery.Document) InitialOdds {
	odds := InitialOdds{
		AHHome:     notAvailable,
		AHLine:     notAvailable,
		AHAway:     notAvailable,
		GoalsOver:  notAvailable,
		GoalsLine:  notAvailable,
		GoalsUnder: notAvailable,
	}
	if doc == nil {
		return odds
	}
	row := doc.Find(initialOddsSelector).First()
	if row.Length() == 0 {
		return odds
	}
	cells := row.Find("td")
	if cells.Length() < 11 {
		return odds
	}
	odds.AHHome = attrOrText(cells.Eq(2), "data-o")
	odds.AHLine = attrOrText(cells.Eq(3), "data-o")
	odds.AHAway = attrOrText(cells.Eq(4), "data-o")
	odds.GoalsOver = attrOrText(cells.Eq(8), "data-o")
	odds.GoalsLine = attrOrText(cells.Eq(9), "data-o")
	odds.GoalsUnder = attrOrText(cells.Eq(10), "data-o")
	return odds
}
