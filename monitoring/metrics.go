// Package monitoring exposes Prometheus metrics for predictions and artifact reloads.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	failures    *prometheus.CounterVec
	reloads     *prometheus.CounterVec
	sessions    prometheus.GaugeFunc
}

// NewMetrics registers the collectors. activeSessions may be nil.
func NewMetrics(activeSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drybean_predictions_total",
			Help: "Predictions served, by surface and predicted label",
		}, []string{"source", "label"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drybean_prediction_latency_seconds",
			Help:    "Latency of the scale, classify, decode pipeline",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drybean_prediction_failures_total",
			Help: "Predictions rejected or failed, by surface",
		}, []string{"source"}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drybean_artifact_reloads_total",
			Help: "Artifact reload attempts, by status",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.predictions,
		m.latency,
		m.failures,
		m.reloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if activeSessions != nil {
		m.sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "drybean_active_sessions",
			Help: "Form sessions currently held in memory",
		}, activeSessions)
		m.registry.MustRegister(m.sessions)
	}
	return m
}

// ObservePrediction records one pipeline call.
func (m *Metrics) ObservePrediction(source, label string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.failures.WithLabelValues(source).Inc()
		return
	}
	m.predictions.WithLabelValues(source, label).Inc()
}

// ObserveReload records one artifact reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reloads.WithLabelValues(status).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
