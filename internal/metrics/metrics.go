// Package metrics defines the Prometheus collectors for answered questions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AskBuckets spans a fast cached answer up to the transport timeout.
var AskBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30}

const OutcomeSuccess = "success"

var (
	// AsksTotal counts questions by outcome: success or the error kind.
	AsksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pocketgem_asks_total",
			Help: "Questions asked",
		},
		[]string{"outcome"},
	)

	// AskDuration records the full round trip in seconds.
	AskDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pocketgem_ask_duration_seconds",
			Help:    "Question round trip",
			Buckets: AskBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		AsksTotal,
		AskDuration,
	)
}

func ObserveAsk(outcome string, elapsed time.Duration) {
	AsksTotal.WithLabelValues(outcome).Inc()
	AskDuration.Observe(elapsed.Seconds())
}
