package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/floodprep/pkg/observability"
)

// Metrics exports compile, decode, cache and HTTP metrics to Prometheus.
// It implements the observability hook interfaces; register it with
// [Metrics.Register].
type Metrics struct {
	registry *prometheus.Registry

	compiles        *prometheus.CounterVec
	compileDuration prometheus.Histogram
	compileWarnings prometheus.Counter

	decodes        *prometheus.CounterVec
	decodeDuration prometheus.Histogram
	unstableFrames prometheus.Counter

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	watchFrames *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates metrics in a private registry under namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "floodprep"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_total",
				Help:      "Total number of scenario compilations",
			},
			[]string{"status"},
		),
		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Duration of scenario compilation in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		compileWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "boundary_warnings_total",
				Help:      "Total number of boundary rescue and drop warnings",
			},
		),

		decodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_decoded_total",
				Help:      "Total number of decoded result frames",
			},
			[]string{"valid"},
		),
		decodeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "decode_duration_seconds",
				Help:      "Duration of frame decoding in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		),
		unstableFrames: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unstable_frames_total",
				Help:      "Total number of frames with negative depths",
			},
		),

		cacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache lookups and writes by key type",
			},
			[]string{"key_type", "result"},
		),
		cacheBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_written_bytes_total",
				Help:      "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),

		watchFrames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "watch_frames_total",
				Help:      "Result files processed by the directory watcher",
			},
			[]string{"status"},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.compiles, m.compileDuration, m.compileWarnings,
		m.decodes, m.decodeDuration, m.unstableFrames,
		m.cacheOps, m.cacheBytes,
		m.watchFrames,
		m.httpRequests, m.httpDuration,
		prometheus.NewGoCollector(),
	)
	return m
}

// Register installs m as the process-wide observability hooks and returns
// a function that removes them.
func (m *Metrics) Register() (restore func()) {
	return observability.Register(m)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// =============================================================================
// Hook implementations
// =============================================================================

func (m *Metrics) OnCompileStart(context.Context, string, int) {}

func (m *Metrics) OnCompileComplete(_ context.Context, _ string, _, warnings int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.compiles.WithLabelValues(status).Inc()
	m.compileDuration.Observe(d.Seconds())
	m.compileWarnings.Add(float64(warnings))
}

func (m *Metrics) OnDecodeComplete(_ context.Context, _ int, valid, unstable bool, d time.Duration) {
	label := "true"
	if !valid {
		label = "false"
	}
	m.decodes.WithLabelValues(label).Inc()
	m.decodeDuration.Observe(d.Seconds())
	if unstable {
		m.unstableFrames.Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnFrame(_ context.Context, _ string, _ int, unstable bool) {
	status := "ok"
	if unstable {
		status = "unstable"
	}
	m.watchFrames.WithLabelValues(status).Inc()
}

func (m *Metrics) OnError(context.Context, string, error) {
	m.watchFrames.WithLabelValues("error").Inc()
}

// observeRequest records one HTTP request.
func (m *Metrics) observeRequest(method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, http.StatusText(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.WatchHooks    = (*Metrics)(nil)
)
