// Package preview builds the consolidated pre-match preview of one match.
//
// A preview fetches the match page once, runs the signal analyzers on a
// bounded pool and merges their outputs into a single PreviewResult. Every
// failure is returned as an error-only result; Preview never panics.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/Vodeneev/betpreview/internal/pkg/handicap"
	"github.com/Vodeneev/betpreview/internal/pkg/metrics"
	"github.com/Vodeneev/betpreview/internal/pkg/models"
	"github.com/Vodeneev/betpreview/internal/pkg/performance"
	"github.com/Vodeneev/betpreview/internal/preview/analysis"
	"github.com/Vodeneev/betpreview/internal/preview/cache"
	"github.com/Vodeneev/betpreview/internal/preview/document"
	"github.com/Vodeneev/betpreview/internal/preview/source"
)

// Fetcher retrieves a page of the data source by path.
type Fetcher interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// DocumentParser turns a fetched page into a navigable document.
type DocumentParser interface {
	Parse(body []byte) (*goquery.Document, error)
}

const (
	DefaultVariant          = "preview"
	DefaultFetchTimeout     = 5 * time.Second
	DefaultSecondaryTimeout = 6 * time.Second
	DefaultStatsTimeout     = 10 * time.Second
	DefaultWorkers          = 4

	mode = "parallel_cached"
)

// State is a step of the preview pipeline.
type State string

const (
	StateIdle      State = "IDLE"
	StateFetching  State = "FETCHING"
	StateParsing   State = "PARSING"
	StateAnalyzing State = "ANALYZING"
	StateMerging   State = "MERGING"
	StateDone      State = "DONE"
	StateFailed    State = "COMPLETE_WITH_ERROR"
)

// Stage labels used for timings.
const (
	stageFetch    = "fetch"
	stageParse    = "parse"
	stageAnalysis = "analysis"
	stageMerge    = "merge"
)

var matchIDRegex = regexp.MustCompile(`^[0-9]+$`)

// Options configures an Engine. Zero values take the defaults.
type Options struct {
	Variant          string
	FetchTimeout     time.Duration
	SecondaryTimeout time.Duration
	StatsTimeout     time.Duration
	Workers          int
	TTL              time.Duration

	// Cache defaults to the process-wide cache.
	Cache   *cache.Cache
	Metrics *metrics.Metrics
	Tracker *performance.Tracker
}

func (o *Options) applyDefaults() {
	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.SecondaryTimeout <= 0 {
		o.SecondaryTimeout = DefaultSecondaryTimeout
	}
	if o.StatsTimeout <= 0 {
		o.StatsTimeout = DefaultStatsTimeout
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.TTL <= 0 {
		o.TTL = cache.DefaultTTL
	}
	if o.Cache == nil {
		o.Cache = cache.Default()
	}
}

// Engine runs previews against one data source.
type Engine struct {
	fetcher Fetcher
	parser  DocumentParser
	opts    Options
}

// NewEngine creates an engine. A nil parser selects the HTML parser.
func NewEngine(fetcher Fetcher, parser DocumentParser, opts Options) *Engine {
	if parser == nil {
		parser = document.NewHTMLParser()
	}
	opts.applyDefaults()
	return &Engine{fetcher: fetcher, parser: parser, opts: opts}
}

// Preview returns the preview of matchID, from the cache when a live entry
// exists.
func (e *Engine) Preview(ctx context.Context, matchID string) models.PreviewResult {
	var result models.PreviewResult
	defer func() {
		e.opts.Metrics.ObservePreview(string(result.Classification))
		if e.opts.Tracker != nil {
			e.opts.Tracker.RecordPreview(matchID, result)
		}
	}()

	if !matchIDRegex.MatchString(matchID) {
		slog.Warn("Rejected match id", "match_id", matchID)
		result = models.ErrorResult(models.InvalidInput, "invalid match id")
		return result
	}

	key := cache.Key(e.opts.Variant, matchID)
	var hit bool
	result, hit = e.opts.Cache.GetOrCompute(ctx, key, e.opts.TTL, func() models.PreviewResult {
		return e.run(ctx, matchID)
	})
	e.opts.Metrics.ObserveCache(hit)

	if hit && result.Performance != nil {
		perf := *result.Performance
		perf.CacheHit = true
		result.Performance = &perf
	}
	return result
}

// run computes a preview. A panic anywhere in the pipeline becomes an
// UNEXPECTED result.
func (e *Engine) run(ctx context.Context, matchID string) (result models.PreviewResult) {
	state := StateIdle
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Preview failed unexpectedly", "match_id", matchID, "stage", state, "panic", r)
			result = models.ErrorResult(models.Unexpected, fmt.Sprintf("unexpected failure while building preview (%s): %v", state, r))
		}
	}()

	start := time.Now()

	state = StateFetching
	fetchCtx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
	body, err := e.fetcher.Get(fetchCtx, matchPath(matchID))
	cancel()
	fetchElapsed := time.Since(start)
	e.opts.Metrics.ObserveStage(stageFetch, fetchElapsed)
	if err != nil {
		slog.Error("Failed to fetch match page", "match_id", matchID, "stage", state, "error", err)
		if source.IsTimeout(err) {
			return models.ErrorResult(models.Timeout, "the data source took too long to respond")
		}
		return models.ErrorResult(models.Transport, fmt.Sprintf("could not fetch match page: %v", err))
	}

	state = StateParsing
	parseStart := time.Now()
	doc, err := e.parser.Parse(body)
	if err != nil {
		slog.Error("Failed to parse match page", "match_id", matchID, "stage", state, "error", err)
		return models.ErrorResult(models.ParseFailure, fmt.Sprintf("could not parse match page: %v", err))
	}
	info, ok := document.ReadMatchInfo(doc)
	if !ok {
		slog.Warn("Match info not found", "match_id", matchID)
	}
	odds := document.ReadInitialOdds(doc)
	line, hasLine := handicap.Parse(odds.AHLine)
	favorite := ""
	if hasLine {
		favorite = handicap.Favorite(line, info.HomeName, info.AwayName)
	}
	parseElapsed := time.Since(parseStart)
	e.opts.Metrics.ObserveStage(stageParse, parseElapsed)

	state = StateAnalyzing
	analysisStart := time.Now()
	sig, tasks := e.analyze(ctx, matchID, doc, info, line, hasLine, favorite)
	analysisElapsed := time.Since(analysisStart)
	e.opts.Metrics.ObserveStage(stageAnalysis, analysisElapsed)

	state = StateMerging
	mergeStart := time.Now()
	result = models.PreviewResult{
		MatchID:          matchID,
		HomeTeam:         info.HomeName,
		AwayTeam:         info.AwayName,
		League:           info.LeagueName,
		MatchDate:        info.Date,
		MatchTime:        info.Time,
		MatchDateTime:    info.DateTime(),
		RecentForm:       &models.RecentForm{Home: sig.homeForm, Away: sig.awayForm},
		HeadToHead:       &sig.h2h,
		Indirect:         &sig.indirect,
		DangerousAttacks: &sig.attacks,
		FavoriteAttacks:  sig.favoriteAttacks,
		Handicap: &models.HandicapInfo{
			Line:           handicap.FormatDecimal(odds.AHLine),
			HomePrice:      odds.AHHome,
			AwayPrice:      odds.AHAway,
			GoalsLine:      odds.GoalsLine,
			OverPrice:      odds.GoalsOver,
			UnderPrice:     odds.GoalsUnder,
			Favorite:       favorite,
			CoverOnLastH2H: sig.lastCover,
		},
		RecentIndirect: &sig.recent,
		HandicapHistory: map[string]models.HandicapHistory{
			"home": sig.homeHistory,
			"away": sig.awayHistory,
		},
	}
	if hasLine {
		v := float64(line)
		result.Handicap.Value = &v
		result.Handicap.Bucket = handicap.Bucket(line)
		result.LineComparisons = map[string][]models.LineComparison{
			"home": sig.homeLines,
			"away": sig.awayLines,
		}
	}
	mergeElapsed := time.Since(mergeStart)
	e.opts.Metrics.ObserveStage(stageMerge, mergeElapsed)

	result.Performance = &models.Performance{
		Total:    seconds(time.Since(start)),
		Fetch:    seconds(fetchElapsed),
		Parse:    seconds(parseElapsed),
		Analysis: seconds(analysisElapsed),
		Merge:    seconds(mergeElapsed),
		Tasks:    tasks,
		Mode:     mode,
	}

	state = StateDone
	slog.Debug("Preview built", "match_id", matchID, "state", state, "total", result.Performance.Total)
	return result
}

// signals holds the analyzer outputs. Each task writes only its own fields.
type signals struct {
	homeForm        models.FormTally
	awayForm        models.FormTally
	h2h             models.HeadToHeadTally
	lastCover       models.CoverageVerdict
	recent          models.RecentIndirect
	indirect        models.IndirectComparison
	attacks         models.DangerousAttacks
	favoriteAttacks *models.AttackComparison
	homeHistory     models.HandicapHistory
	awayHistory     models.HandicapHistory
	homeLines       []models.LineComparison
	awayLines       []models.LineComparison
}

// taskTimings collects the elapsed time of every analyzer task.
type taskTimings struct {
	mu      sync.Mutex
	seconds map[string]float64
}

func (t *taskTimings) record(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seconds[name] = seconds(d)
}

func (e *Engine) analyze(ctx context.Context, matchID string, doc *goquery.Document, info document.MatchInfo, line handicap.Value, hasLine bool, favorite string) (*signals, map[string]float64) {
	home, away := info.HomeName, info.AwayName
	sig := &signals{
		lastCover: models.Unknown,
		indirect:  models.IndirectComparison{Samples: []models.IndirectSample{}},
	}
	timings := &taskTimings{seconds: make(map[string]float64)}

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	spawn := func(name string, fn func()) {
		g.Go(func() error {
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Analyzer task failed", "match_id", matchID, "stage", name, "error", r)
				}
				timings.record(name, time.Since(start))
			}()
			fn()
			return nil
		})
	}

	spawn("form_home", func() {
		sig.homeForm = analysis.RecentForm(document.Rows(doc, document.HomeTable, document.FormLimit), home)
	})
	spawn("form_away", func() {
		sig.awayForm = analysis.RecentForm(document.Rows(doc, document.AwayTable, document.FormLimit), away)
	})
	spawn("h2h", func() {
		sig.h2h = analysis.HeadToHead(document.Rows(doc, document.HeadToHeadTable, document.HeadToHeadLimit), home)
		sig.lastCover = analysis.LastH2HCover(document.ReadH2H(doc, home, away), line, hasLine, favorite, home)
	})
	spawn("recent_indirect", func() {
		sig.recent = e.recentIndirect(ctx, matchID, doc, info)
	})
	spawn("indirect", func() {
		sig.indirect = analysis.Indirect(
			document.Rows(doc, document.HomeTable, 0),
			document.Rows(doc, document.AwayTable, 0),
			home, away, document.RivalLimit)
	})
	spawn("dangerous_attacks", func() {
		sig.attacks, sig.favoriteAttacks = analysis.DangerousAttacks(document.ReadComparisonPanels(doc), favorite)
	})
	spawn("handicap_history_home", func() {
		sig.homeHistory = analysis.HandicapHistory(document.Rows(doc, document.HomeTable, document.LineLimit), home)
	})
	spawn("handicap_history_away", func() {
		sig.awayHistory = analysis.HandicapHistory(document.Rows(doc, document.AwayTable, document.LineLimit), away)
	})
	if hasLine {
		spawn("line_comparison_home", func() {
			sig.homeLines = analysis.LineComparisons(document.Rows(doc, document.HomeTable, document.LineLimit), line)
		})
		spawn("line_comparison_away", func() {
			sig.awayLines = analysis.LineComparisons(document.Rows(doc, document.AwayTable, document.LineLimit), line)
		})
	}

	_ = g.Wait()
	return sig, timings.seconds
}

func matchPath(matchID string) string {
	return "/match/h2h-" + matchID
}

func livePath(matchID string) string {
	return "/match/live-" + matchID
}

// seconds rounds d to milliseconds.
func seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000) / 1000
}
