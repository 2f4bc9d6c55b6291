// Package metrics provides Prometheus metrics for the dashboard pipeline.
//
// All recording methods are safe to call on a nil *Metrics, so components
// can be built without a registry in tests and CLI commands.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// StatusSuccess labels a successful operation.
	StatusSuccess = "success"
	// StatusError labels a failed operation.
	StatusError = "error"
)

// Metrics contains the Prometheus collectors for refdash.
type Metrics struct {
	registry *prometheus.Registry

	queriesTotal   *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	cacheTotal     *prometheus.CounterVec
	exportsTotal   *prometheus.CounterVec
	samplesShaped  prometheus.Counter
	statusSystems  *prometheus.GaugeVec
	sseConnections prometheus.Gauge

	collectors []prometheus.Collector
}

// New creates the collectors and registers them with registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refdash_queries_total",
			Help: "Total number of database queries executed",
		},
		[]string{"kind", "status"}, // kind: status, systems, measurements
	)

	m.queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "refdash_query_duration_seconds",
			Help:    "Time taken by database queries",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		[]string{"kind"},
	)

	m.cacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refdash_query_cache_total",
			Help: "Query cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	m.exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refdash_exports_total",
			Help: "Total number of CSV exports",
		},
		[]string{"status"},
	)

	m.samplesShaped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refdash_samples_shaped_total",
		Help: "Total number of (wavelength, count) samples produced by the shaper",
	})

	m.statusSystems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "refdash_status_systems",
			Help: "Number of systems on the status board by whether they recorded today",
		},
		[]string{"today"},
	)

	m.sseConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "refdash_sse_connections",
		Help: "Open server-sent event streams",
	})

	m.collectors = []prometheus.Collector{
		m.queriesTotal,
		m.queryDuration,
		m.cacheTotal,
		m.exportsTotal,
		m.samplesShaped,
		m.statusSystems,
		m.sseConnections,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.collectors {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.collectors {
		collector.Collect(ch)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordQuery records one executor call of the given kind.
func (m *Metrics) RecordQuery(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.queriesTotal.WithLabelValues(kind, status).Inc()
	m.queryDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordCache records a cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheTotal.WithLabelValues("hit").Inc()
		return
	}
	m.cacheTotal.WithLabelValues("miss").Inc()
}

// RecordExport records a CSV export.
func (m *Metrics) RecordExport(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.exportsTotal.WithLabelValues(StatusError).Inc()
		return
	}
	m.exportsTotal.WithLabelValues(StatusSuccess).Inc()
}

// AddSamples counts shaped samples.
func (m *Metrics) AddSamples(n int) {
	if m == nil {
		return
	}
	m.samplesShaped.Add(float64(n))
}

// SetStatus publishes the latest status board totals.
func (m *Metrics) SetStatus(recorded, missing int) {
	if m == nil {
		return
	}
	m.statusSystems.WithLabelValues("true").Set(float64(recorded))
	m.statusSystems.WithLabelValues("false").Set(float64(missing))
}

// SSEOpened increments the open stream gauge.
func (m *Metrics) SSEOpened() {
	if m == nil {
		return
	}
	m.sseConnections.Inc()
}

// SSEClosed decrements the open stream gauge.
func (m *Metrics) SSEClosed() {
	if m == nil {
		return
	}
	m.sseConnections.Dec()
}
