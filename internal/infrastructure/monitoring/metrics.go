package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Session metrics
	SessionsSpawned  prometheus.Counter
	SessionsActive   prometheus.Gauge
	SessionsFinished *prometheus.CounterVec
	SpawnFailures    prometheus.Counter
	SessionDuration  prometheus.Histogram

	// I/O metrics
	OutputBytes prometheus.Counter
	InputsSent  *prometheus.CounterVec
	Kills       prometheus.Counter
	LogExports  *prometheus.CounterVec

	// Service metrics
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector backed by its own registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		SessionsSpawned: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linutil_sessions_spawned_total",
				Help: "Total number of process sessions spawned",
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "linutil_sessions_active",
				Help: "Number of sessions whose process has not exited",
			},
		),
		SessionsFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linutil_sessions_finished_total",
				Help: "Total number of sessions finished, by outcome",
			},
			[]string{"outcome"},
		),
		SpawnFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linutil_spawn_failures_total",
				Help: "Total number of failed spawns",
			},
		),
		SessionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "linutil_session_duration_seconds",
				Help:    "Process run time in seconds",
				Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 300, 900, 3600},
			},
		),

		OutputBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linutil_output_bytes_total",
				Help: "Total bytes appended to output logs after filtering",
			},
		),
		InputsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linutil_inputs_total",
				Help: "Total input lines sent, by status",
			},
			[]string{"status"},
		),
		Kills: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "linutil_kills_total",
				Help: "Total terminate signals issued",
			},
		),
		LogExports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linutil_log_exports_total",
				Help: "Total log exports, by status",
			},
			[]string{"status"},
		),

		ServiceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linutil_service_calls_total",
				Help: "Total number of service tool calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linutil_service_duration_seconds",
				Help:    "Service tool call duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"service", "method"},
		),
	}
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSpawn records a successful spawn
func (m *Metrics) RecordSpawn() {
	if m == nil {
		return
	}
	m.SessionsSpawned.Inc()
	m.SessionsActive.Inc()
}

// RecordSpawnFailure records a failed spawn
func (m *Metrics) RecordSpawnFailure() {
	if m == nil {
		return
	}
	m.SpawnFailures.Inc()
}

// RecordFinish records a process exit
func (m *Metrics) RecordFinish(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
	m.SessionsFinished.WithLabelValues(outcome).Inc()
	m.SessionDuration.Observe(duration.Seconds())
}

// AddOutputBytes records bytes appended to an output log
func (m *Metrics) AddOutputBytes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OutputBytes.Add(float64(n))
}

// RecordInput records an input delivery attempt
func (m *Metrics) RecordInput(status string) {
	if m == nil {
		return
	}
	m.InputsSent.WithLabelValues(status).Inc()
}

// RecordKill records a terminate signal
func (m *Metrics) RecordKill() {
	if m == nil {
		return
	}
	m.Kills.Inc()
}

// RecordExport records a log export attempt
func (m *Metrics) RecordExport(status string) {
	if m == nil {
		return
	}
	m.LogExports.WithLabelValues(status).Inc()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// Timer measures operation duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	service string
	method  string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, service, method string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		service: service,
		method:  method,
	}
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(status string) {
	t.metrics.RecordServiceCall(t.service, t.method, status, time.Since(t.start))
}
