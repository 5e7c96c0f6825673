package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	assignmentsTotal  *prometheus.CounterVec
	assignmentLatency prometheus.Histogram
	selectionChanges  prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Counter) {
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_assignments_total",
			Help: "Number of resolved assignment and unassignment requests",
		},
		[]string{"kind", "outcome"},
	)
	lat := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "job_assignment_latency_seconds",
			Help:    "Latency of assignment mutations from issue to resolution",
			Buckets: prometheus.DefBuckets,
		},
	)
	sel := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_selection_changes_total",
			Help: "Number of selection state changes in the assignment protocol",
		},
	)
	return asn, lat, sel
}

func init() {
	assignmentsTotal, assignmentLatency, selectionChanges = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(assignmentsTotal, assignmentLatency, selectionChanges)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	assignmentsTotal, assignmentLatency, selectionChanges = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
