// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_processed_total",
			Help: "Total number of inbound updates processed",
		},
		[]string{"category"},
	)

	UpdatesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_updates_dropped_total",
			Help: "Total number of updates dropped while a previous one was in flight",
		},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_validation_failures_total",
			Help: "Total number of rejected free-text answers per step",
		},
		[]string{"step"},
	)

	ApplicationsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_applications_committed_total",
			Help: "Total number of finished application forms committed",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_active_sessions",
			Help: "Number of conversations currently in progress",
		},
	)

	UpdateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_update_duration_seconds",
			Help: "Duration of update handling in seconds",
		},
		[]string{"category"},
	)
)
