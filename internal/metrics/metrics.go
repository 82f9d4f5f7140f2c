// Package metrics holds the prometheus collectors exported by the overlay services
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/feral-file/ff-streaks/internal/domain"
)

const namespace = "streaks"

var (
	// AdmissionOutputs counts evaluated outputs.
	// Labels: outcome (admitted, rejected), reason
	AdmissionOutputs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admission",
		Name:      "outputs_total",
		Help:      "Candidate outputs evaluated by the topic manager",
	}, []string{"outcome", "reason"})

	// AdmissionBundles counts evaluated bundles.
	// Labels: status (ok, empty, failed)
	AdmissionBundles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "admission",
		Name:      "bundles_total",
		Help:      "Transaction bundles evaluated by the topic manager",
	}, []string{"status"})

	// LookupQueries counts answered lookup questions.
	// Labels: kind (find_all, find_by_creator, ...), status (ok, error)
	LookupQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "queries_total",
		Help:      "Lookup queries by kind and status",
	}, []string{"kind", "status"})

	// LookupLatency measures lookup answer latency.
	// Labels: kind
	LookupLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "lookup",
		Name:      "latency_seconds",
		Help:      "Lookup query latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"kind"})

	// IndexMutations counts writes to the streak index.
	// Labels: op (upsert, remove), status (ok, error)
	IndexMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "index",
		Name:      "mutations_total",
		Help:      "Streak index mutations by operation and status",
	}, []string{"op", "status"})

	// BridgeMessages counts overlay notifications consumed from the message bus.
	// Labels: event (admitted, spent, evicted, unknown), result (ack, nak, term)
	BridgeMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "bridge",
		Name:      "messages_total",
		Help:      "Overlay notifications consumed by the bridge",
	}, []string{"event", "result"})
)

// Reason maps an admission rejection to a low-cardinality label
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, domain.ErrDecode):
		return "decode"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, domain.ErrStaleOrFutureTick):
		return "stale_or_future_tick"
	case errors.Is(err, domain.ErrDuplicateDailyTick):
		return "duplicate_daily_tick"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrTerminated):
		return "terminated"
	default:
		return "other"
	}
}

// Status returns "ok" or "error"
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveLookup records one answered lookup query
func ObserveLookup(kind string, started time.Time, err error) {
	LookupQueries.WithLabelValues(kind, Status(err)).Inc()
	LookupLatency.WithLabelValues(kind).Observe(time.Since(started).Seconds())
}
