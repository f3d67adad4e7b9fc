// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoresCalculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_scores_calculated_total",
			Help: "Total number of match score calculations, by result",
		},
		[]string{"result"}, // calculated | cached | forced | failed
	)

	BatchPairs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_score_batch_pairs_total",
			Help: "Per-pair outcomes of batch scoring runs",
		},
		[]string{"outcome"}, // success | failure
	)

	EstimatesProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_score_estimates_total",
			Help: "Total number of heuristic score estimates produced",
		},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)
