package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("signup").(*Metrics)
	m.RegisterCounter("requests_total", "requests")
	m.RegisterCounterVec("rejected_total", "rejections", []string{"reason"})

	m.IncCounter("requests_total")
	m.IncCounter("requests_total")
	m.IncCounterVec("rejected_total", "duplicate")
	// unknown names are ignored
	m.IncCounter("missing_total")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.counters["requests_total"]))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.counterVecs["rejected_total"].WithLabelValues("duplicate")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.counterVecs["rejected_total"].WithLabelValues("validation")))
}

func TestMetrics_Gauge(t *testing.T) {
	m := NewMetrics("signup").(*Metrics)
	m.RegisterGauge("in_flight", "in flight")

	m.IncGauge("in_flight")
	m.IncGauge("in_flight")
	m.DecGauge("in_flight")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gauges["in_flight"]))
}

func TestMetrics_HistogramVec(t *testing.T) {
	m := NewMetrics("signup").(*Metrics)
	m.RegisterHistogramVec("duration_seconds", "duration", []float64{0.1, 1}, []string{"outcome"})

	m.ObserveHistogramVec("duration_seconds", 0.05, "created")

	count, err := testutil.GatherAndCount(m.GetRegistry(), "signup_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricNamespace(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		want        string
	}{
		{name: "already valid", serviceName: "signup", want: "signup"},
		{name: "hyphen", serviceName: "signup-service", want: "signup_service"},
		{name: "dots and spaces", serviceName: "sign up.v2", want: "sign_up_v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metricNamespace(tt.serviceName); got != tt.want {
				t.Errorf("metricNamespace() = %v, want %v", got, tt.want)
			}
		})
	}
}
