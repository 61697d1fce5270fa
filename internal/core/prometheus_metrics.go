package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports store operation timings and persistence
// failures as Prometheus collectors.
type PrometheusMetricsRecorder struct {
	durations       *prometheus.HistogramVec
	persistFailures *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder registers the recorder's collectors with reg.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	rec := &PrometheusMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "partnerhub",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of record store operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "partnerhub",
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Document writes that failed and were suppressed.",
		}, []string{"driver"}),
	}
	for _, c := range []prometheus.Collector{rec.durations, rec.persistFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Observe implements MetricsRecorder.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// PersistFailed implements PersistFailureRecorder.
func (r *PrometheusMetricsRecorder) PersistFailed(driver string) {
	r.persistFailures.WithLabelValues(driver).Inc()
}
