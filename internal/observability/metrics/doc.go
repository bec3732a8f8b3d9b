// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Crawl pipeline metrics (crawls, stages, extracted candidates, dedup)
//   - Page fetch metrics
//   - Database query metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "opportunity-scout/internal/observability/metrics"
//
//	func runCrawl(sourceID int64) {
//	    start := time.Now()
//	    // ... fetch, extract, persist ...
//
//	    metrics.RecordCrawlCompleted(sourceID, "success", time.Since(start))
//	}
package metrics
