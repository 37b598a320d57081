package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the lineup service.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	searchesTotal    prometheus.Counter
	likesSyncedTotal prometheus.Counter
	rateLimitedTotal prometheus.Counter
	sets             prometheus.Gauge
	likeTokens       prometheus.Gauge
}

// New creates and registers the lineup metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_requests_total",
			Help: "Total number of HTTP requests received, by route pattern",
		}, []string{"route"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lineup_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx), by status",
		}, []string{"status"}),
		searchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lineup_searches_total",
			Help: "Total number of DJ searches served",
		}),
		likesSyncedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lineup_likes_synced_total",
			Help: "Total number of likes lists stored",
		}),
		rateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lineup_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		}),
		sets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lineup_sets",
			Help: "Number of sets in the served lineup",
		}),
		likeTokens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lineup_like_tokens",
			Help: "Number of tokens with a stored likes list",
		}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.searchesTotal,
		m.likesSyncedTotal,
		m.rateLimitedTotal,
		m.sets,
		m.likeTokens,
	)
	return m
}

// IncRequests increments the request counter of route.
func (m *Metrics) IncRequests(route string) {
	m.requestsTotal.WithLabelValues(route).Inc()
}

// IncErrors increments the error counter of status.
func (m *Metrics) IncErrors(status string) {
	m.errorsTotal.WithLabelValues(status).Inc()
}

// IncSearches increments the searches counter.
func (m *Metrics) IncSearches() {
	m.searchesTotal.Inc()
}

// IncLikesSynced increments the likes synced counter.
func (m *Metrics) IncLikesSynced() {
	m.likesSyncedTotal.Inc()
}

// IncRateLimited increments the rate limited counter.
func (m *Metrics) IncRateLimited() {
	m.rateLimitedTotal.Inc()
}

// SetSets sets the lineup size gauge.
func (m *Metrics) SetSets(n int) {
	m.sets.Set(float64(n))
}

// SetLikeTokens sets the like tokens gauge.
func (m *Metrics) SetLikeTokens(n int) {
	m.likeTokens.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		h.ServeHTTP(w, r)
	})
}
