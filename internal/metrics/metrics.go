package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, path and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lyricsearch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 20},
	}, []string{"method", "path"})

	SourceRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "source_requests_total",
		Help:      "Total requests to primary and secondary sources by source name and outcome.",
	}, []string{"source", "status"})

	SourceRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lyricsearch",
		Name:      "source_request_duration_seconds",
		Help:      "Source request duration in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"source"})

	VariantMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "variant_matches_total",
		Help:      "Resolutions by the query variant that produced the first hit (1-based, or none).",
	}, []string{"variant"})

	EnrichmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "enrichments_total",
		Help:      "Secondary lookups by kind (snippet, preview) and outcome (ok, empty, error).",
	}, []string{"kind", "status"})

	ResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "resolutions_total",
		Help:      "Song resolutions by outcome (ok, no_result, failed, panic).",
	}, []string{"status"})

	HistoryWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "history_writes_total",
		Help:      "History appends by backend and outcome.",
	}, []string{"backend", "status"})

	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "enrich_cache_hits_total",
		Help:      "Total number of enrichment cache hits.",
	})

	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lyricsearch",
		Name:      "enrich_cache_misses_total",
		Help:      "Total number of enrichment cache misses.",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SourceRequestsTotal,
		SourceRequestDuration,
		VariantMatchesTotal,
		EnrichmentsTotal,
		ResolutionsTotal,
		HistoryWritesTotal,
		CacheHitsTotal,
		CacheMissesTotal,
	)
}
