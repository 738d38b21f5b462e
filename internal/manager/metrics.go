package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelq",
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Requests waiting for the engine",
		},
	)

	queueWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "modelq",
			Subsystem: "queue",
			Name:      "wait_seconds",
			Help:      "Time between submission and the start of the engine call",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)

	engineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelq",
			Subsystem: "engine",
			Name:      "requests_total",
			Help:      "Completed engine requests by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	engineRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modelq",
			Subsystem: "engine",
			Name:      "request_duration_seconds",
			Help:      "Duration of engine calls including decoding",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"mode"},
	)

	embeddingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modelq",
			Subsystem: "engine",
			Name:      "embeddings_total",
			Help:      "Embedding calls by outcome",
		},
		[]string{"outcome"},
	)

	engineReady = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "modelq",
			Subsystem: "engine",
			Name:      "ready",
			Help:      "1 when the engine has loaded",
		},
	)
)

func init() {
	prometheus.MustRegister(queueDepth, queueWaitSeconds, engineRequestsTotal, engineRequestDuration, embeddingsTotal, engineReady)
}
