package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TierMetrics records outcomes of tier recomputation runs.
type TierMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	updated  prometheus.Counter
}

// NewTierMetrics registers the tier engine metrics on the provided registerer.
func NewTierMetrics(reg prometheus.Registerer) *TierMetrics {
	if reg == nil {
		return &TierMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tier_recompute_duration_seconds",
		Help:    "Duration of tier recompute operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tier_recompute_success",
		Help: "Successful tier recompute operations.",
	}, []string{"scope"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tier_recompute_failure",
		Help: "Failed tier recompute operations.",
	}, []string{"scope"})
	updated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tier_parties_updated_total",
		Help: "Parties whose tier state was refreshed.",
	})
	reg.MustRegister(duration, success, failure, updated)
	return &TierMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		updated:  updated,
	}
}

// ObserveDuration records the duration of a recompute in the given scope
// ("party" or "batch").
func (m *TierMetrics) ObserveDuration(scope string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(scope)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the scope.
func (m *TierMetrics) IncSuccess(scope string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(scope)).Inc()
}

// IncFailure increments the failure counter for the scope.
func (m *TierMetrics) IncFailure(scope string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(scope)).Inc()
}

// AddUpdated counts parties refreshed by a batch run.
func (m *TierMetrics) AddUpdated(count int) {
	if m == nil || m.updated == nil || count <= 0 {
		return
	}
	m.updated.Add(float64(count))
}

func normalizeLabel(scope string) string {
	if scope == "" {
		return "unknown"
	}
	return scope
}
