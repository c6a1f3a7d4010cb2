// Package metrics provides Prometheus instrumentation for analysis and
// summarization requests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medtwin"

// Metrics holds all Prometheus collectors for the service.
// Each instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalyzeRequests  *prometheus.CounterVec
	AnalyzeDuration  *prometheus.HistogramVec
	RawFallbacks     prometheus.Counter
	SchemaViolations prometheus.Counter
	StagedPages      prometheus.Histogram

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec
	UpstreamTokens   *prometheus.CounterVec

	// Summary metrics
	SummaryRequests   *prometheus.CounterVec
	RegionAssignments *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		AnalyzeRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyze_requests_total",
				Help:      "Document analysis requests by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		AnalyzeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analyze_duration_seconds",
				Help:      "End-to-end document analysis time",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"mode"},
		),
		RawFallbacks: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyze_raw_fallbacks_total",
				Help:      "Upstream responses that were not valid JSON and were returned raw",
			},
		),
		SchemaViolations: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyze_schema_violations_total",
				Help:      "Parsed upstream responses that did not match the report schema",
			},
		),
		StagedPages: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "staged_document_pages",
				Help:      "Page count of staged documents",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 250},
			},
		),

		UpstreamDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream model call latency",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
			},
			[]string{"provider", "outcome"},
		),
		UpstreamTokens: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "upstream_tokens_total",
				Help:      "Tokens reported by the upstream model",
			},
			[]string{"provider", "kind"},
		),

		SummaryRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_requests_total",
				Help:      "Summary requests by outcome",
			},
			[]string{"outcome"},
		),
		RegionAssignments: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "region_assignments_total",
				Help:      "Items routed to each body region",
			},
			[]string{"region", "kind"},
		),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"method", "path", "code"},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler for the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
