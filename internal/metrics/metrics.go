// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	registry         *prometheus.Registry
	queriesTotal     *prometheus.CounterVec
	catalogRecords   prometheus.Gauge
	catalogRefreshes prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

// New creates and registers all collectors on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fundbench_benchmark_queries_total",
			Help: "Benchmark queries by outcome",
		}, []string{"outcome"}),
		catalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fundbench_catalog_records",
			Help: "Number of fund records in the cached catalog",
		}),
		catalogRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fundbench_catalog_refreshes_total",
			Help: "Completed catalog refreshes",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fundbench_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.queriesTotal,
		m.catalogRecords,
		m.catalogRefreshes,
		m.httpDuration,
	)

	return m
}

// Handler returns the /metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// QueryCompleted counts a benchmark query outcome
func (m *Metrics) QueryCompleted(outcome string) {
	m.queriesTotal.WithLabelValues(outcome).Inc()
}

// CatalogRefreshed records a completed refresh and the new catalog size
func (m *Metrics) CatalogRefreshed(recordCount int) {
	m.catalogRefreshes.Inc()
	m.catalogRecords.Set(float64(recordCount))
}

// ObserveHTTP records one HTTP request's latency
func (m *Metrics) ObserveHTTP(method, path, status string, duration time.Duration) {
	m.httpDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
