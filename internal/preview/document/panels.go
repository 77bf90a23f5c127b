package document

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

const panelSelector = "div.football-history-list > div.content"

var (
	resultLabelRegex = regexp.MustCompile(`Res\s*:`)
	lineLabelRegex   = regexp.MustCompile(`AH\s*:`)
	venueLabelRegex  = regexp.MustCompile(`Localía de`)
)

// panelStats is the row order of the statistics table of a panel.
var panelStats = []string{
	models.StatShots,
	models.StatShotsOnGoal,
	models.StatAttacks,
	models.StatDangerousAttacks,
}

// ReadComparisonPanels reads the two indirect-comparison boxes. It returns
// nil when the page has fewer than two; an unreadable box is a nil entry.
func ReadComparisonPanels(doc *goquery.Document) []*models.ComparisonPanel {
	if doc == nil {
		return nil
	}
	boxes := doc.Find(panelSelector)
	if boxes.Length() < 2 {
		return nil
	}
	return []*models.ComparisonPanel{
		readPanel(boxes.Eq(0)),
		readPanel(boxes.Eq(1)),
	}
}

// readPanel reads a box titled "Team vs. Rival" with "Res :", "AH :" and
// "Localía de" labels, each followed by a span holding the value.
func readPanel(box *goquery.Selection) *models.ComparisonPanel {
	title := text(box.Find("div.title").First())
	if title == "" {
		return nil
	}
	team, rival, _ := strings.Cut(title, " vs. ")

	root := box.Get(0)
	result, ok := valueAfter(root, resultLabelRegex)
	if !ok {
		return nil
	}
	line, ok := valueAfter(root, lineLabelRegex)
	if !ok {
		return nil
	}
	venue, ok := valueAfter(root, venueLabelRegex)
	if !ok {
		return nil
	}

	rows := box.Find("table").First().Find("tr")
	if rows.Length() < len(panelStats) {
		return nil
	}
	stats := make([]models.StatLine, 0, len(panelStats))
	for i, label := range panelStats {
		cells := rows.Eq(i).Find("td")
		if cells.Length() < 3 {
			return nil
		}
		stats = append(stats, models.StatLine{
			Label: label,
			Home:  text(cells.Eq(0)),
			Away:  text(cells.Eq(2)),
		})
	}

	return &models.ComparisonPanel{
		Team:   strings.TrimSpace(team),
		Rival:  strings.TrimSpace(rival),
		Result: result,
		Line:   line,
		Venue:  models.Venue(strings.ToUpper(venue)),
		Stats:  stats,
	}
}

// valueAfter walks root in document order and returns the text of the first
// span that follows a text node matching label.
func valueAfter(root *html.Node, label *regexp.Regexp) (string, bool) {
	if root == nil {
		return "", false
	}
	labelSeen := false
	var value *html.Node

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		switch {
		case !labelSeen && n.Type == html.TextNode && label.MatchString(n.Data):
			labelSeen = true
		case labelSeen && n.Type == html.ElementNode && n.Data == "span":
			value = n
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(root)

	if value == nil {
		return "", false
	}
	return strings.Join(strings.Fields(nodeText(value)), " "), true
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
