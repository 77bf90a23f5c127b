package performance

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Vodeneev/betpreview/internal/pkg/models"
)

// Tracker aggregates the instrumentation of preview runs.
type Tracker struct {
	mu sync.RWMutex

	// Overall metrics
	TotalRuns int
	CacheHits int
	Failures  map[models.Classification]int

	// Timing metrics of computed (not cached) runs
	ComputedRuns     int
	TotalDuration    time.Duration
	FetchDuration    time.Duration
	ParseDuration    time.Duration
	AnalysisDuration time.Duration
	MergeDuration    time.Duration

	// Per-task metrics
	TaskDurations map[string]time.Duration
	TaskCounts    map[string]int

	// Per-preview timings
	PreviewTimings []PreviewTiming
}

// PreviewTiming tracks a single preview call.
type PreviewTiming struct {
	MatchID        string
	Total          time.Duration
	CacheHit       bool
	Classification models.Classification
	Timestamp      time.Time
}

var globalTracker = NewTracker()

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		Failures:       make(map[models.Classification]int),
		TaskDurations:  make(map[string]time.Duration),
		TaskCounts:     make(map[string]int),
		PreviewTimings: make([]PreviewTiming, 0, 1000),
	}
}

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns = 0
	t.CacheHits = 0
	t.ComputedRuns = 0
	t.TotalDuration = 0
	t.FetchDuration = 0
	t.ParseDuration = 0
	t.AnalysisDuration = 0
	t.MergeDuration = 0
	t.Failures = make(map[models.Classification]int)
	t.TaskDurations = make(map[string]time.Duration)
	t.TaskCounts = make(map[string]int)
	t.PreviewTimings = t.PreviewTimings[:0]
}

// RecordPreview records one preview result.
func (t *Tracker) RecordPreview(matchID string, result models.PreviewResult) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns++
	timing := PreviewTiming{
		MatchID:        matchID,
		Classification: result.Classification,
		Timestamp:      time.Now(),
	}

	if result.Failed() {
		t.Failures[result.Classification]++
	}

	if perf := result.Performance; perf != nil {
		timing.Total = seconds(perf.Total)
		timing.CacheHit = perf.CacheHit
		if perf.CacheHit {
			t.CacheHits++
		} else {
			t.ComputedRuns++
			t.TotalDuration += seconds(perf.Total)
			t.FetchDuration += seconds(perf.Fetch)
			t.ParseDuration += seconds(perf.Parse)
			t.AnalysisDuration += seconds(perf.Analysis)
			t.MergeDuration += seconds(perf.Merge)
			for task, s := range perf.Tasks {
				t.TaskDurations[task] += seconds(s)
				t.TaskCounts[task]++
			}
		}
	}

	t.PreviewTimings = append(t.PreviewTimings, timing)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// PrintSummary prints a performance summary
func (t *Tracker) PrintSummary() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.TotalRuns == 0 {
		slog.Info("No performance data collected yet")
		return
	}

	slog.Info("PERFORMANCE SUMMARY")
	slog.Info("Overall Statistics",
		"total_runs", t.TotalRuns,
		"cache_hits", t.CacheHits,
		"cache_hit_rate", float64(t.CacheHits)/float64(t.TotalRuns)*100,
		"computed_runs", t.ComputedRuns)

	for class, count := range t.Failures {
		slog.Info("Failures", "classification", class, "count", count)
	}

	if t.ComputedRuns > 0 {
		runs := time.Duration(t.ComputedRuns)
		slog.Info("Timing Breakdown (average per computed run)",
			"fetch", t.FetchDuration/runs, "fetch_percent", percent(t.FetchDuration, t.TotalDuration),
			"parse", t.ParseDuration/runs, "parse_percent", percent(t.ParseDuration, t.TotalDuration),
			"analysis", t.AnalysisDuration/runs, "analysis_percent", percent(t.AnalysisDuration, t.TotalDuration),
			"merge", t.MergeDuration/runs,
			"total", t.TotalDuration/runs)
	}

	for _, task := range t.sortedTasks() {
		slog.Info("Task",
			"task", task,
			"runs", t.TaskCounts[task],
			"avg_time", t.TaskDurations[task]/time.Duration(t.TaskCounts[task]))
	}
}

func percent(part, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// sortedTasks returns task names, slowest average first.
func (t *Tracker) sortedTasks() []string {
	tasks := make([]string, 0, len(t.TaskCounts))
	for task, n := range t.TaskCounts {
		if n > 0 {
			tasks = append(tasks, task)
		}
	}
	avg := func(task string) time.Duration {
		return t.TaskDurations[task] / time.Duration(t.TaskCounts[task])
	}
	sort.Slice(tasks, func(i, j int) bool {
		if avg(tasks[i]) != avg(tasks[j]) {
			return avg(tasks[i]) > avg(tasks[j])
		}
		return tasks[i] < tasks[j]
	})
	return tasks
}

// MetricsResponse represents the JSON response structure for the /stats endpoint
type MetricsResponse struct {
	Overall struct {
		TotalRuns    int            `json:"total_runs"`
		CacheHits    int            `json:"cache_hits"`
		CacheHitRate float64        `json:"cache_hit_rate"`
		ComputedRuns int            `json:"computed_runs"`
		Failures     map[string]int `json:"failures"`
	} `json:"overall"`

	Timing struct {
		TotalDuration    string `json:"total_duration"`
		FetchDuration    string `json:"fetch_duration"`
		ParseDuration    string `json:"parse_duration"`
		AnalysisDuration string `json:"analysis_duration"`
		MergeDuration    string `json:"merge_duration"`

		FetchPercent    float64 `json:"fetch_percent"`
		ParsePercent    float64 `json:"parse_percent"`
		AnalysisPercent float64 `json:"analysis_percent"`
	} `json:"timing"`

	Tasks []TaskMetrics `json:"tasks"`
}

// TaskMetrics is the average duration of one analyzer task.
type TaskMetrics struct {
	Task    string `json:"task"`
	Runs    int    `json:"runs"`
	AvgTime string `json:"avg_time"`
}

// GetMetrics returns structured metrics for JSON API
func (t *Tracker) GetMetrics() MetricsResponse {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var resp MetricsResponse
	resp.Overall.TotalRuns = t.TotalRuns
	resp.Overall.CacheHits = t.CacheHits
	resp.Overall.ComputedRuns = t.ComputedRuns
	if t.TotalRuns > 0 {
		resp.Overall.CacheHitRate = float64(t.CacheHits) / float64(t.TotalRuns) * 100
	}
	resp.Overall.Failures = make(map[string]int, len(t.Failures))
	for class, count := range t.Failures {
		resp.Overall.Failures[string(class)] = count
	}

	if t.ComputedRuns > 0 {
		runs := time.Duration(t.ComputedRuns)
		resp.Timing.TotalDuration = (t.TotalDuration / runs).String()
		resp.Timing.FetchDuration = (t.FetchDuration / runs).String()
		resp.Timing.ParseDuration = (t.ParseDuration / runs).String()
		resp.Timing.AnalysisDuration = (t.AnalysisDuration / runs).String()
		resp.Timing.MergeDuration = (t.MergeDuration / runs).String()
		resp.Timing.FetchPercent = percent(t.FetchDuration, t.TotalDuration)
		resp.Timing.ParsePercent = percent(t.ParseDuration, t.TotalDuration)
		resp.Timing.AnalysisPercent = percent(t.AnalysisDuration, t.TotalDuration)
	}

	resp.Tasks = make([]TaskMetrics, 0, len(t.TaskCounts))
	for _, task := range t.sortedTasks() {
		resp.Tasks = append(resp.Tasks, TaskMetrics{
			Task:    task,
			Runs:    t.TaskCounts[task],
			AvgTime: (t.TaskDurations[task] / time.Duration(t.TaskCounts[task])).String(),
		})
	}
	return resp
}
