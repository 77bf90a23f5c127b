package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache lookup results.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// outcomeOK labels previews that completed without an error classification.
const outcomeOK = "ok"

// Metrics holds the preview engine collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	previews      *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		previews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betpreview_previews_total",
			Help: "previews served by outcome",
		}, []string{"outcome"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "betpreview_cache_lookups_total",
			Help: "result cache lookups by result",
		}, []string{"result"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "betpreview_stage_duration_seconds",
			Help:    "elapsed time per pipeline stage",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"stage"}),
	}
	if reg != nil {
		reg.MustRegister(m.previews, m.cacheLookups, m.stageDuration)
	}
	return m
}

// ObservePreview counts a finished preview; an empty classification counts as ok.
func (m *Metrics) ObservePreview(classification string) {
	if m == nil {
		return
	}
	if classification == "" {
		classification = outcomeOK
	}
	m.previews.WithLabelValues(classification).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}
