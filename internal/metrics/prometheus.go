// Package metrics exports session operation metrics in the Prometheus format.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"landingcore/internal/core"
)

// Namespace prefixes every exported metric.
const Namespace = "landingcore"

// Recorder implements core.MetricsRecorder on a private Prometheus registry.
type Recorder struct {
	registry   *prometheus.Registry
	durations  *prometheus.HistogramVec
	operations *prometheus.CounterVec
}

// NewRecorder registers the session metrics on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "operation_duration_seconds",
			Help:      "Latency of builder session operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "session",
			Name:      "operations_total",
			Help:      "Builder session operations by outcome.",
		}, []string{"operation", "status"}),
	}
	r.registry.MustRegister(r.durations, r.operations)
	return r
}

// Observe implements core.MetricsRecorder.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := string(core.AuditStatusError)
	if success {
		status = string(core.AuditStatusSuccess)
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.operations.WithLabelValues(operation, status).Inc()
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

var _ core.MetricsRecorder = (*Recorder)(nil)

// Tee fans every observation out to each recorder in order.
type Tee []core.MetricsRecorder

// Observe implements core.MetricsRecorder.
func (t Tee) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	for _, r := range t {
		r.Observe(ctx, operation, success, duration)
	}
}
