// Package metrics provides Prometheus metrics for the HTTP surface and case engagement
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engagement action labels
const (
	ActionCaseCreated = "case_created"
	ActionView        = "view"
	ActionWhip        = "whip"
	ActionVoteAngry   = "vote_angry"
	ActionVoteLearn   = "vote_learn"
	ActionShare       = "share"
	ActionComment     = "comment"
	ActionLike        = "like"
	ActionUnlike      = "unlike"
)

// Metrics contains the application's Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	engagementActions   *prometheus.CounterVec
	statisticsCache     *prometheus.CounterVec
}

// New creates metrics registered on a private registry together with the
// Go runtime and process collectors
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return NewWithRegistry(registry)
}

// NewWithRegistry creates and registers the metrics on registry
func NewWithRegistry(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bugai_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"}, // path is the route template, e.g. /api/cases/:id
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bugai_http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	m.engagementActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bugai_engagement_actions_total",
			Help: "Total number of successful engagement actions on cases",
		},
		[]string{"action"},
	)

	m.statisticsCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bugai_statistics_cache_total",
			Help: "Statistics cache lookups by result",
		},
		[]string{"result"}, // hit, miss, error
	)
}

func (m *Metrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.engagementActions,
		m.statisticsCache,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAction counts a successful engagement action
func (m *Metrics) RecordAction(action string) {
	if m == nil {
		return
	}
	m.engagementActions.WithLabelValues(action).Inc()
}

// RecordCacheLookup counts a statistics cache lookup
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.statisticsCache.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
