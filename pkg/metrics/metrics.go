// Package metrics holds the Prometheus collectors of the tagger. Every
// method is safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "seo_tagger"

// Metrics groups the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Generations       *prometheus.CounterVec
	Fallbacks         *prometheus.CounterVec
	AIRequestDuration *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	BatchItems        *prometheus.CounterVec
}

// New registers all collectors on a fresh registry, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Documents generated, by analysis strategy that produced them.",
		}, []string{"strategy"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "AI analyses that fell back to the rule-based strategy, by reason.",
		}, []string{"reason"}),
		AIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_request_duration_seconds",
			Help:      "Latency of completion requests to the AI provider.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}, []string{"provider", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_cache_lookups_total",
			Help:      "AI response cache lookups, by result.",
		}, []string{"result"}),
		BatchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Drafts handled by batch and watch runs, by status.",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.Generations,
		m.Fallbacks,
		m.AIRequestDuration,
		m.CacheLookups,
		m.BatchItems,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGeneration counts one generated document.
func (m *Metrics) ObserveGeneration(strategy string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(strategy).Inc()
}

// ObserveFallback counts one fallback from the AI strategy.
func (m *Metrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(reason).Inc()
}

// ObserveAIRequest records the latency of one provider call.
func (m *Metrics) ObserveAIRequest(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.AIRequestDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// ObserveCache counts a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveBatchItem counts one batch or watch item by status.
func (m *Metrics) ObserveBatchItem(status string) {
	if m == nil {
		return
	}
	m.BatchItems.WithLabelValues(status).Inc()
}
