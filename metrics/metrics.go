// Package metrics provides Prometheus metrics for the reminder service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MedicationsSaved counts persisted medication records.
	MedicationsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medicheck",
			Name:      "medications_saved_total",
			Help:      "Total number of medication records persisted",
		},
	)

	// FiringsTotal counts reminder firings by slot and outcome.
	FiringsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medicheck",
			Name:      "reminder_firings_total",
			Help:      "Total number of reminder firings",
		},
		[]string{"slot", "status"},
	)

	// FiringDuration measures how long a firing takes end to end.
	FiringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medicheck",
			Name:      "reminder_firing_duration_seconds",
			Help:      "Duration of reminder firings in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"slot"},
	)

	// GroupsPerFiring observes the number of recipient groups per firing.
	GroupsPerFiring = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medicheck",
			Name:      "reminder_groups",
			Help:      "Distribution of recipient groups per firing",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"slot"},
	)

	// DispatchTotal counts channel sends by channel and outcome.
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medicheck",
			Name:      "reminder_dispatch_total",
			Help:      "Total number of reminder channel sends",
		},
		[]string{"channel", "status"},
	)
)

// RecordFiring records a completed or aborted firing.
func RecordFiring(slot, status string, groups int, seconds float64) {
	FiringsTotal.WithLabelValues(slot, status).Inc()
	FiringDuration.WithLabelValues(slot).Observe(seconds)
	GroupsPerFiring.WithLabelValues(slot).Observe(float64(groups))
}

// RecordDispatch records one channel send.
func RecordDispatch(channel, status string) {
	DispatchTotal.WithLabelValues(channel, status).Inc()
}
