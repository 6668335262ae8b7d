// Package metrics holds the Prometheus collectors of the mood engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SignalsRecorded counts accepted signals by source.
	SignalsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "signals_recorded_total",
		Help:      "Mood signals merged into the store, by source.",
	}, []string{"source"})

	// SignalsUnchanged counts signals that did not change the history.
	SignalsUnchanged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "signals_unchanged_total",
		Help:      "Mood signals that were identical to, or older than, the stored record.",
	})

	// Reconciliations counts reconciliation passes by result
	// (applied, noop, error).
	Reconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "reconciliations_total",
		Help:      "Reconciliation passes between persisted and in-memory state.",
	}, []string{"result"})

	// CorruptStateRecoveries counts unreadable state documents that were
	// discarded.
	CorruptStateRecoveries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "corrupt_state_recoveries_total",
		Help:      "Persisted state documents discarded because they could not be parsed.",
	})

	// PersistErrors counts failed writes of the state document.
	PersistErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "persist_errors_total",
		Help:      "Failed writes of the persisted state document.",
	})

	// InferenceRequests counts remote inference outcomes
	// (emotion, no_emotion, error).
	InferenceRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mood",
		Name:      "inference_requests_total",
		Help:      "Remote inference calls by outcome.",
	}, []string{"outcome"})

	// InferenceDuration observes remote inference latency.
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mood",
		Name:      "inference_duration_seconds",
		Help:      "Latency of remote inference calls.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
	})

	// Subscribers tracks live in-process subscriptions.
	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mood",
		Name:      "subscribers",
		Help:      "Live in-process subscriptions to store updates.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
