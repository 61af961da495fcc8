package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// conversionsTotal counts conversions by mode
	conversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amrviz_conversions_total",
		Help: "Total AMR conversions by mode",
	}, []string{"mode"})

	// conversionNodes tracks nodes produced per conversion
	conversionNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amrviz_conversion_nodes",
		Help:    "Number of nodes produced per conversion",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	// conversionEdges tracks edges produced per conversion
	conversionEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "amrviz_conversion_edges",
		Help:    "Number of edges produced per conversion",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	// lintDiagnosticsTotal counts lint findings by rule
	lintDiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "amrviz_lint_diagnostics_total",
		Help: "Total lint diagnostics by rule",
	}, []string{"rule"})

	// storeEvictionsTotal counts results dropped from the store
	storeEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "amrviz_store_evictions_total",
		Help: "Total stored results evicted to make room for new ones",
	})
)

func observeConversion(mode string, nodes, edges int) {
	conversionsTotal.WithLabelValues(mode).Inc()
	conversionNodes.Observe(float64(nodes))
	conversionEdges.Observe(float64(edges))
}
