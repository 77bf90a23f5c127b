package document

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// Table ids of the match page.
const (
	HomeTable       = "table_v1"
	AwayTable       = "table_v2"
	HeadToHeadTable = "table_v3"
)

// Row limits used by the analyzers.
const (
	FormLimit       = 8
	HeadToHeadLimit = 8
	LineLimit       = 5
	RivalLimit      = 3
)

const (
	minCells     = 5
	dateCell     = 1
	homeCell     = 2
	scoreCell    = 3
	awayCell     = 4
	resultCell   = 5
	handicapCell = 11
)

// teamIDRegex extracts the team id from onclick="team(123)"
var teamIDRegex = regexp.MustCompile(`team\((\d+)\)`)

// rowPattern matches history rows of a table: tr1_<id> for table_v1 and so on.
func rowPattern(tableID string) *regexp.Regexp {
	if tableID == "" {
		return nil
	}
	n := tableID[len(tableID)-1:]
	return regexp.MustCompile(`^tr` + regexp.QuoteMeta(n) + `_\d+`)
}

// Rows extracts the history rows of table tableID, in document order, capped
// at limit (limit <= 0 means all rows). Rows with fewer than five cells are
// skipped. A missing table yields no rows.
func Rows(doc *goquery.Document, tableID string, limit int) []models.MatchRow {
	if doc == nil {
		return nil
	}
	pattern := rowPattern(tableID)
	if pattern == nil {
		return nil
	}

	var rows []models.MatchRow
	seen := 0
	doc.Find("table#" + tableID).First().Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		id, _ := tr.Attr("id")
		if !pattern.MatchString(id) {
			return true
		}
		seen++
		if row, ok := readRow(tr, seen-1); ok {
			rows = append(rows, row)
		}
		return limit <= 0 || seen < limit
	})
	return rows
}

// readRow maps one history row. Cells: 1 date, 2 home, 3 score, 4 away,
// 5 result mark, 11 handicap line.
func readRow(tr *goquery.Selection, index int) (models.MatchRow, bool) {
	cells := tr.Find("td")
	if cells.Length() < minCells {
		return models.MatchRow{}, false
	}

	row := models.MatchRow{
		Index:    index,
		MatchID:  attr(tr, "index"),
		LeagueID: attr(tr, "name"),
		KeyMatch: attr(tr, "vs") == "1",
		Score:    text(cells.Eq(scoreCell)),
	}

	if date := cells.Eq(dateCell).Find(`span[name="timeData"]`); date.Length() > 0 {
		row.Date = text(date.First())
	}
	row.Home, row.HomeID = teamCell(cells.Eq(homeCell))
	row.Away, row.AwayID = teamCell(cells.Eq(awayCell))

	if cells.Length() > resultCell {
		row.Result = resultMark(cells.Eq(resultCell))
	}
	if cells.Length() > handicapCell {
		row.Handicap = attrOrText(cells.Eq(handicapCell), "data-o")
	}
	return row, true
}

func teamCell(cell *goquery.Selection) (name, id string) {
	link := cell.Find("a").First()
	if link.Length() == 0 {
		return text(cell), ""
	}
	name = text(link)
	if name == "" {
		name = text(cell)
	}
	if onclick, ok := link.Attr("onclick"); ok {
		if m := teamIDRegex.FindStringSubmatch(onclick); m != nil {
			id = m[1]
		}
	}
	return name, id
}

// resultMark reads the win/draw/lose marker span of a row.
func resultMark(cell *goquery.Selection) string {
	span := cell.Find("span").First()
	if span.Length() == 0 {
		return ""
	}
	for _, class := range []string{"win", "lose", "draw"} {
		if span.HasClass(class) {
			return class
		}
	}
	return strings.ToLower(text(span))
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}
