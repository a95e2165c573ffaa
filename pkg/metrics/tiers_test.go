package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTierMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTierMetrics(reg)

	m.IncSuccess("party")
	m.IncSuccess("party")
	m.IncFailure("batch")
	m.AddUpdated(7)
	m.ObserveDuration("batch", 250*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.success.WithLabelValues("party")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failure.WithLabelValues("batch")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.updated))
}

func TestTierMetricsNilSafe(t *testing.T) {
	var m *TierMetrics
	m.IncSuccess("party")
	m.IncFailure("party")
	m.AddUpdated(1)
	m.ObserveDuration("party", time.Second)

	empty := NewTierMetrics(nil)
	empty.IncSuccess("party")
	empty.AddUpdated(3)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "unknown", normalizeLabel(""))
	assert.Equal(t, "batch", normalizeLabel("batch"))
}
