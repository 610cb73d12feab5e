package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes bot activity to Prometheus.
type Recorder struct {
	analysesTotal *prometheus.CounterVec
	opportunities *prometheus.GaugeVec
	syncErrors    *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder on the default registry.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lotosentinel_analyses_total",
				Help: "Total number of series analyses run",
			},
			[]string{"kind"},
		),
		opportunities: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lotosentinel_opportunities",
				Help: "Symbols currently at or above a scoring threshold",
			},
			[]string{"kind", "tier"},
		),
		syncErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lotosentinel_sync_errors_total",
				Help: "Total number of history sync failures",
			},
			[]string{"source"},
		),
		resolutions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lotosentinel_predictions_resolved_total",
				Help: "Live predictions settled, by outcome",
			},
			[]string{"kind", "outcome"},
		),
		taskDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lotosentinel_task_duration_seconds",
				Help:    "Duration of scheduled tasks in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"task"},
		),
	}
}

// RecordAnalysis counts one completed analysis for a game kind.
func (r *Recorder) RecordAnalysis(kind string) {
	r.analysesTotal.WithLabelValues(kind).Inc()
}

// SetOpportunities records how many symbols sit in a tier right now.
func (r *Recorder) SetOpportunities(kind, tier string, n int) {
	r.opportunities.WithLabelValues(kind, tier).Set(float64(n))
}

// RecordSyncError counts a failed history fetch.
func (r *Recorder) RecordSyncError(source string) {
	r.syncErrors.WithLabelValues(source).Inc()
}

// RecordResolution counts a settled live prediction.
func (r *Recorder) RecordResolution(kind, outcome string) {
	r.resolutions.WithLabelValues(kind, outcome).Inc()
}

// RecordTaskDuration records how long a scheduled task took.
func (r *Recorder) RecordTaskDuration(task string, seconds float64) {
	r.taskDuration.WithLabelValues(task).Observe(seconds)
}
