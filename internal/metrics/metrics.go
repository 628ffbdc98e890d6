// Package metrics holds the Prometheus collectors exported by journal.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the collectors.
type Config struct {
	// Namespace prefixes every metric name (default: "journal").
	Namespace string

	// Registry receives the collectors. Default: a fresh registry with the
	// Go and process collectors.
	Registry *prometheus.Registry
}

// Option configures Metrics.
type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	remoteFetchFailures prometheus.Counter
	remoteFetchDuration prometheus.Histogram
	entriesSaved        prometheus.Counter
	entriesDeleted      prometheus.Counter
	submissions         *prometheus.CounterVec
	mergedEntries       *prometheus.GaugeVec
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

func New(opts ...Option) *Metrics {
	cfg := Config{Namespace: "journal"}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
		cfg.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		registry: cfg.Registry,

		remoteFetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "remote_fetch_failures_total",
			Help:      "Remote fetches that failed and were replaced by an empty list",
		}),

		remoteFetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "remote_fetch_duration_seconds",
			Help:      "Duration of remote entry fetches",
			Buckets:   prometheus.DefBuckets,
		}),

		entriesSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entries_saved_total",
			Help:      "Entries accepted by the form",
		}),

		entriesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "entries_deleted_total",
			Help:      "Local entries deleted",
		}),

		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions by result",
		}, []string{"result"}),

		mergedEntries: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "merged_entries",
			Help:      "Entries in the last merged list by source",
		}, []string{"source"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RemoteFetchFailed() {
	if m == nil {
		return
	}

	m.remoteFetchFailures.Inc()
}

func (m *Metrics) ObserveRemoteFetch(d time.Duration) {
	if m == nil {
		return
	}

	m.remoteFetchDuration.Observe(d.Seconds())
}

func (m *Metrics) EntrySaved() {
	if m == nil {
		return
	}

	m.entriesSaved.Inc()
}

func (m *Metrics) EntryDeleted() {
	if m == nil {
		return
	}

	m.entriesDeleted.Inc()
}

// Submission counts one form submission; result is "ok", "invalid" or "failed".
func (m *Metrics) Submission(result string) {
	if m == nil {
		return
	}

	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) Merged(local, remote int) {
	if m == nil {
		return
	}

	m.mergedEntries.WithLabelValues("local").Set(float64(local))
	m.mergedEntries.WithLabelValues("remote").Set(float64(remote))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
