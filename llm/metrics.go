package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stratagem",
		Subsystem: "llm",
		Name:      "completions_total",
		Help:      "Completion calls by model and outcome.",
	}, []string{"model", "status"})

	completionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stratagem",
		Subsystem: "llm",
		Name:      "completion_duration_seconds",
		Help:      "Completion call latency by model.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"model"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stratagem",
		Subsystem: "llm",
		Name:      "cache_hits_total",
		Help:      "Completions served from the TTL cache.",
	}, []string{"model"})
)

// observeCompletion records the outcome and latency of one call.
func observeCompletion(model string, err error, elapsed time.Duration) {
	status := "ok"
	switch {
	case IsConfiguration(err):
		status = "configuration_error"
	case err != nil:
		status = "service_error"
	}
	completionsTotal.WithLabelValues(model, status).Inc()
	completionDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}
