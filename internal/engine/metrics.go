package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsFoldedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidbuster_records_folded_total",
			Help: "Total award records folded, by indicator.",
		},
		[]string{"indicator"},
	)
	signalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bidbuster_signals_total",
			Help: "Total signals emitted, by indicator and severity.",
		},
		[]string{"indicator", "severity"},
	)
	finalizeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bidbuster_finalize_duration_seconds",
			Help:    "Time spent in indicator Finalize.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"indicator"},
	)
)

// WriteMetrics writes every metric in the default registry to path in the
// Prometheus text format, for a textfile collector to pick up.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
