package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Draft metrics
	DraftsCreated   prometheus.Counter
	DraftsDiscarded prometheus.Counter
	DraftsSubmitted prometheus.Counter
	SubmitDuration  prometheus.Histogram
	SubmitErrors    *prometheus.CounterVec

	// Validation metrics
	ValidationRuns       prometheus.Counter
	ValidationViolations *prometheus.CounterVec
	LineWarnings         *prometheus.CounterVec

	// Lookup metrics
	Lookups         *prometheus.CounterVec
	LookupDuration  *prometheus.HistogramVec
	StaleResponses  prometheus.Counter
	RateCacheResult *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Draft metrics
		DraftsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "mmconsole_drafts_created_total",
			Help: "Total number of transaction drafts created",
		}),
		DraftsDiscarded: f.NewCounter(prometheus.CounterOpts{
			Name: "mmconsole_drafts_discarded_total",
			Help: "Total number of drafts discarded without submission",
		}),
		DraftsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "mmconsole_drafts_submitted_total",
			Help: "Total number of drafts accepted by core banking",
		}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mmconsole_submit_duration_seconds",
			Help:    "Duration of draft submissions",
			Buckets: prometheus.DefBuckets,
		}),
		SubmitErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmconsole_submit_errors_total",
				Help: "Total number of failed submissions by reason",
			},
			[]string{"reason"},
		),

		// Validation metrics
		ValidationRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "mmconsole_validation_runs_total",
			Help: "Total number of draft validations",
		}),
		ValidationViolations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmconsole_validation_violations_total",
				Help: "Total validation violations by kind",
			},
			[]string{"kind"},
		),
		LineWarnings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmconsole_line_warnings_total",
				Help: "Total line warnings by kind",
			},
			[]string{"kind"},
		),

		// Lookup metrics
		Lookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmconsole_lookups_total",
				Help: "Account and rate lookups by resource and outcome",
			},
			[]string{"resource", "outcome"},
		),
		LookupDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mmconsole_lookup_duration_seconds",
				Help:    "Duration of account and rate lookups",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		StaleResponses: f.NewCounter(prometheus.CounterOpts{
			Name: "mmconsole_stale_responses_total",
			Help: "Lookup responses discarded because the line changed meanwhile",
		}),
		RateCacheResult: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mmconsole_rate_cache_total",
				Help: "Exchange rate cache hits and misses",
			},
			[]string{"result"},
		),
	}
}
