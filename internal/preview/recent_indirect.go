package preview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/betpreview/internal/pkg/handicap"
	"github.com/Vodeneev/betpreview/internal/pkg/models"
	"github.com/Vodeneev/betpreview/internal/preview/document"
)

// recentIndirect collects the last league match of each side with its live
// statistics, and the meeting of both sides' key rivals. Secondary fetch
// failures leave the affected part empty.
func (e *Engine) recentIndirect(ctx context.Context, matchID string, doc *goquery.Document, info document.MatchInfo) models.RecentIndirect {
	var out models.RecentIndirect

	if row := document.LastMatchInLeague(doc, document.HomeTable, info.HomeName, info.LeagueID, true); row != nil {
		out.LastHome = recentMatch(row)
	}
	if row := document.LastMatchInLeague(doc, document.AwayTable, info.AwayName, info.LeagueID, false); row != nil {
		out.LastAway = recentMatch(row)
	}

	var g errgroup.Group
	for _, m := range []*models.RecentMatch{out.LastHome, out.LastAway} {
		if m == nil || m.MatchID == "" {
			continue
		}
		g.Go(func() error {
			m.Stats = e.liveStats(ctx, matchID, m.MatchID)
			return nil
		})
	}
	_ = g.Wait()

	out.H2HCol3 = e.rivalMeeting(ctx, matchID, doc, info.LeagueID)
	return out
}

func recentMatch(row *models.MatchRow) *models.RecentMatch {
	return &models.RecentMatch{
		MatchID: row.MatchID,
		Home:    row.Home,
		Away:    row.Away,
		Score:   row.Score,
		Date:    row.Date,
		Line:    handicap.FormatDecimal(row.Handicap),
	}
}

// rivalMeeting finds the match between the key rival of the home side and
// the key rival of the away side on the page of the home side's key match.
func (e *Engine) rivalMeeting(ctx context.Context, matchID string, doc *goquery.Document, leagueID string) *models.Meeting {
	rivalA, ok := document.KeyMatch(doc, document.HomeTable, leagueID)
	if !ok {
		return nil
	}
	rivalB, ok := document.KeyMatch(doc, document.AwayTable, leagueID)
	if !ok {
		return nil
	}

	keyDoc, err := e.fetchDocument(ctx, e.opts.SecondaryTimeout, matchPath(rivalA.KeyMatchID))
	if err != nil {
		slog.Warn("Failed to load key match page", "match_id", matchID, "stage", "recent_indirect", "key_match_id", rivalA.KeyMatchID, "error", err)
		return nil
	}

	row, ok := document.FindMeeting(keyDoc, rivalA.RivalID, rivalB.RivalID)
	if !ok {
		return nil
	}
	meeting := &models.Meeting{
		MatchID: row.MatchID,
		Home:    row.Home,
		Away:    row.Away,
		Score:   row.Score,
		Line:    handicap.FormatDecimal(row.Handicap),
		Date:    row.Date,
	}
	if row.MatchID != "" {
		meeting.Stats = e.liveStats(ctx, matchID, row.MatchID)
	}
	return meeting
}

// liveStats reads the statistics of a played match from its live page.
func (e *Engine) liveStats(ctx context.Context, matchID, statsID string) []models.StatLine {
	doc, err := e.fetchDocument(ctx, e.opts.StatsTimeout, livePath(statsID))
	if err != nil {
		slog.Warn("Failed to load match statistics", "match_id", matchID, "stage", "recent_indirect", "stats_match_id", statsID, "error", err)
		return nil
	}
	return document.ReadProgressionStats(doc)
}

func (e *Engine) fetchDocument(ctx context.Context, timeout time.Duration, path string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := e.fetcher.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	doc, err := e.parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
