package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_submitted_total",
			Help: "Total number of step submissions accepted by the draft store",
		},
		[]string{"wizard", "step"},
	)

	StepsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_steps_rejected_total",
			Help: "Total number of step submissions rejected, by error code",
		},
		[]string{"wizard", "step", "error_code"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_validation_failures_total",
			Help: "Total number of local validation passes that blocked advancement",
		},
		[]string{"wizard", "step"},
	)

	DraftCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_cache_hits_total",
			Help: "Cached draft fetches that found a resumable draft",
		},
		[]string{"wizard"},
	)

	DraftCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_cache_misses_total",
			Help: "Cached draft fetches that found nothing",
		},
		[]string{"wizard"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_submission_duration_seconds",
			Help: "Duration of step submissions in seconds",
		},
		[]string{"wizard", "step"},
	)

	WizardsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_processed_total",
			Help: "Total number of wizards completed via the Process action",
		},
		[]string{"wizard"},
	)
)
