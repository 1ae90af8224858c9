package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	analyzeTotal      *prometheus.CounterVec
	analyzeDuration   prometheus.Histogram
	providerCalls     *prometheus.CounterVec
	providerDuration  *prometheus.HistogramVec
	embeddingCalls    prometheus.Counter
	suggestionResults *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		analyzeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "resume_tailor",
				Name:      "analyze_requests_total",
				Help:      "Total analyze requests processed.",
			},
			[]string{"status"},
		),
		analyzeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "resume_tailor",
				Name:      "analyze_duration_seconds",
				Help:      "Analyze pipeline duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "resume_tailor",
				Name:      "provider_calls_total",
				Help:      "Generative provider calls by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "resume_tailor",
				Name:      "provider_call_duration_seconds",
				Help:      "Generative provider call duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		embeddingCalls: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "resume_tailor",
				Name:      "embedding_calls_total",
				Help:      "Embedding model calls, cache misses only.",
			},
		),
		suggestionResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "resume_tailor",
				Name:      "suggestions_total",
				Help:      "Rewrite suggestions by validation outcome.",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.analyzeTotal,
		m.analyzeDuration,
		m.providerCalls,
		m.providerDuration,
		m.embeddingCalls,
		m.suggestionResults,
	)

	return m
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAnalyze records one analyze request. Safe on a nil receiver.
func (m *Metrics) ObserveAnalyze(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.analyzeTotal.WithLabelValues(status).Inc()
	m.analyzeDuration.Observe(duration.Seconds())
}

// ObserveProviderCall records one generative provider call.
func (m *Metrics) ObserveProviderCall(provider, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	m.providerDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// ObserveEmbeddingCall records one embedding model call.
func (m *Metrics) ObserveEmbeddingCall() {
	if m == nil {
		return
	}
	m.embeddingCalls.Inc()
}

// ObserveSuggestion records one rewrite proposal outcome.
func (m *Metrics) ObserveSuggestion(outcome string) {
	if m == nil {
		return
	}
	m.suggestionResults.WithLabelValues(outcome).Inc()
}
