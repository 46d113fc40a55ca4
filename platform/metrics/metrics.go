// Package metrics provides the prometheus instruments for fine searches and
// the fines API client. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every instrument the service exports.
type Metrics struct {
	registry *prometheus.Registry

	// Upstream attempts by endpoint and result ("ok" or an error kind)
	UpstreamRequests *prometheus.HistogramVec
	UpstreamRetries  *prometheus.CounterVec

	// Dispatched searches by search type and outcome
	Searches       *prometheus.CounterVec
	SearchDuration *prometheus.HistogramVec
	UserRetries    *prometheus.CounterVec

	ActiveSessions prometheus.Gauge
}

// New registers all instruments on reg. Pass a fresh registry per test to
// avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		UpstreamRequests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "police_fines_upstream_request_duration_seconds",
			Help:    "Duration of single attempts against the fines API",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint", "result"}),

		UpstreamRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "police_fines_upstream_retries_total",
			Help: "Transport-level retries against the fines API",
		}, []string{"endpoint"}),

		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "police_fines_searches_total",
			Help: "Dispatched searches by type and outcome",
		}, []string{"search_type", "outcome"}),

		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "police_fines_search_duration_seconds",
			Help:    "Duration of dispatched searches including transport retries",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"search_type"}),

		UserRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "police_fines_user_retries_total",
			Help: "Explicit user retries by search type",
		}, []string{"search_type"}),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "police_fines_active_sessions",
			Help: "Search sessions currently held in memory",
		}),
	}
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstreamRequest records one attempt against the fines API.
func (m *Metrics) ObserveUpstreamRequest(endpoint, result string, d time.Duration) {
	if m != nil {
		m.UpstreamRequests.WithLabelValues(endpoint, result).Observe(d.Seconds())
	}
}

// IncUpstreamRetry records a transport-level retry.
func (m *Metrics) IncUpstreamRetry(endpoint string) {
	if m != nil {
		m.UpstreamRetries.WithLabelValues(endpoint).Inc()
	}
}

// ObserveSearch records a completed search.
func (m *Metrics) ObserveSearch(searchType, outcome string, d time.Duration) {
	if m != nil {
		m.Searches.WithLabelValues(searchType, outcome).Inc()
		m.SearchDuration.WithLabelValues(searchType).Observe(d.Seconds())
	}
}

// IncUserRetry records an explicit retry.
func (m *Metrics) IncUserRetry(searchType string) {
	if m != nil {
		m.UserRetries.WithLabelValues(searchType).Inc()
	}
}

// SetActiveSessions reports the number of live sessions.
func (m *Metrics) SetActiveSessions(n int) {
	if m != nil {
		m.ActiveSessions.Set(float64(n))
	}
}
