// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Crawl metrics track the source registry and the crawl pipeline
var (
	// SourcesTotal tracks the number of registered sources by status
	SourcesTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crawl_sources_total",
			Help: "Number of registered crawl sources by status",
		},
		[]string{"status"},
	)

	// CrawlsTotal counts completed crawls by source and terminal status
	CrawlsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawls_total",
			Help: "Total number of completed crawls",
		},
		[]string{"source_id", "status"},
	)

	// CrawlDuration measures end-to-end crawl duration per source
	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_duration_seconds",
			Help:    "End-to-end crawl duration from start to terminal log state",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"source_id"},
	)

	// CrawlStageDuration measures the duration of each pipeline stage
	CrawlStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawl_stage_duration_seconds",
			Help:    "Duration of a single crawl pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"stage"}, // stage: fetch, extract, persist
	)

	// OpportunitiesExtractedTotal counts candidates produced by extraction
	OpportunitiesExtractedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opportunities_extracted_total",
			Help: "Total number of opportunity candidates extracted from sources",
		},
		[]string{"source_id"},
	)

	// OpportunitiesStagedTotal counts candidates that survived dedup and were staged
	OpportunitiesStagedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunities_staged_total",
			Help: "Total number of opportunity drafts staged for review",
		},
	)

	// OpportunitiesDuplicateTotal counts candidates dropped as duplicates
	OpportunitiesDuplicateTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunities_duplicate_total",
			Help: "Total number of candidates dropped as duplicates of persisted opportunities",
		},
	)

	// DraftPersistErrorsTotal counts per-candidate persistence failures
	DraftPersistErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "draft_persist_errors_total",
			Help: "Total number of candidates skipped due to persistence failures",
		},
	)

	// PageFetchAttemptsTotal counts page fetch attempts by result
	PageFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_fetch_attempts_total",
			Help: "Total number of page fetch attempts",
		},
		[]string{"result"}, // result: success, timeout, http_status, network, content_type
	)

	// PageFetchDuration measures time to fetch a source page
	PageFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "page_fetch_duration_seconds",
			Help:    "Time taken to fetch a source page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// PageFetchSize measures sanitized page content size in bytes
	PageFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "page_fetch_size_bytes",
			Help: "Sanitized page content size in bytes",
			Buckets: []float64{
				100, 200, 400, 800, 1600, 3200, 6400, 12800,
				25600, 51200, 102400, 204800, 409600, 819200,
				1638400, 3276800, 5242880, // up to the 5MB body cap
			},
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordOperationDuration records the duration of a named operation
func RecordOperationDuration(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
