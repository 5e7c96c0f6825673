package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transitionsApplied   *prometheus.CounterVec
	transitionConflicts  prometheus.Counter
	transitionFailures   *prometheus.CounterVec
	notificationAttempts *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, *prometheus.CounterVec, *prometheus.CounterVec) {
	applied := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_transitions_total",
			Help: "Number of acknowledged job status transitions",
		},
		[]string{"action"},
	)
	conflicts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_transition_conflicts_total",
			Help: "Number of transitions refused because one was already in flight",
		},
	)
	failures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_transition_failures_total",
			Help: "Number of transitions rolled back after a persistence failure",
		},
		[]string{"action"},
	)
	notify := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_notifications_total",
			Help: "Number of on-my-way notification attempts",
		},
		[]string{"outcome"},
	)
	return applied, conflicts, failures, notify
}

func init() {
	transitionsApplied, transitionConflicts, transitionFailures, notificationAttempts = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers lifecycle metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(transitionsApplied, transitionConflicts, transitionFailures, notificationAttempts)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	transitionsApplied, transitionConflicts, transitionFailures, notificationAttempts = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
