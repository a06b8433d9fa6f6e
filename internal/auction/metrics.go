// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package auction

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for the operations counter.
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Metrics contains the coordinator's Prometheus metrics.
type Metrics struct {
	OperationsTotal *prometheus.CounterVec
	PicksTotal      prometheus.Counter
	ActiveRounds    prometheus.Gauge
	ResolveDuration prometheus.Histogram
}

// NewMetrics creates and registers coordinator metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "draftline_coordinator_operations_total",
				Help: "Total coordinator operations by kind and outcome",
			},
			[]string{"operation", "outcome"},
		),
		PicksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "draftline_draft_picks_total",
				Help: "Total draft picks committed",
			},
		),
		ActiveRounds: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "draftline_active_rounds",
				Help: "Number of auctions with an item currently on the block",
			},
		),
		ResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "draftline_resolve_duration_seconds",
				Help:    "Latency of round resolution including the commit",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	reg.MustRegister(m.OperationsTotal, m.PicksTotal, m.ActiveRounds, m.ResolveDuration)
	return m
}
