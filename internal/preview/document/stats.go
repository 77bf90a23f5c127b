package document

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// progressionStats is the order in which live statistics are reported.
var progressionStats = []string{
	models.StatCorners,
	models.StatShots,
	models.StatShotsOnGoal,
	models.StatAttacks,
	models.StatDangerousAttacks,
	models.StatRedCards,
}

// ReadProgressionStats reads the statistics list of a live match page. Red
// cards missing from the list are counted from the events table, where home
// cards sit in right-aligned cells and away cards in left-aligned ones.
// Statistics not present on the page are omitted.
func ReadProgressionStats(doc *goquery.Document) []models.StatLine {
	if doc == nil {
		return nil
	}

	found := make(map[string]models.StatLine)
	doc.Find("div#teamTechDiv_detail ul.stat").First().Find("li").Each(func(_ int, li *goquery.Selection) {
		title := text(li.Find("span.stat-title").First())
		if title == "" {
			return
		}
		values := li.Find("span.stat-c")
		if values.Length() != 2 {
			return
		}
		found[title] = models.StatLine{
			Label: title,
			Home:  text(values.Eq(0)),
			Away:  text(values.Eq(1)),
		}
	})

	if _, ok := found[models.StatRedCards]; !ok {
		home, away := 0, 0
		doc.Find(`table#eventsTable img[alt="Red Card"]`).Each(func(_ int, img *goquery.Selection) {
			style, _ := img.Closest("td").Attr("style")
			switch {
			case strings.Contains(style, "text-align: right;"):
				home++
			case strings.Contains(style, "text-align: left;"):
				away++
			}
		})
		found[models.StatRedCards] = models.StatLine{
			Label: models.StatRedCards,
			Home:  strconv.Itoa(home),
			Away:  strconv.Itoa(away),
		}
	}

	stats := make([]models.StatLine, 0, len(progressionStats))
	for _, label := range progressionStats {
		if s, ok := found[label]; ok {
			stats = append(stats, s)
		}
	}
	return stats
}
