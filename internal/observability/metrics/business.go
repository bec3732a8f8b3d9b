package metrics

import (
	"fmt"
	"time"
)

// RecordCrawlCompleted records a crawl reaching a terminal state.
// Status should be "success" or "failed".
func RecordCrawlCompleted(sourceID int64, status string, duration time.Duration) {
	id := fmt.Sprintf("%d", sourceID)
	CrawlsTotal.WithLabelValues(id, status).Inc()
	CrawlDuration.WithLabelValues(id).Observe(duration.Seconds())
}

// RecordCrawlStage records the duration of one pipeline stage
// ("fetch", "extract", "persist").
func RecordCrawlStage(stage string, duration time.Duration) {
	CrawlStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordOpportunitiesExtracted records the number of candidates the
// extraction engine produced for a source.
func RecordOpportunitiesExtracted(sourceID int64, count int) {
	if count > 0 {
		OpportunitiesExtractedTotal.WithLabelValues(fmt.Sprintf("%d", sourceID)).Add(float64(count))
	}
}

// RecordDedup records the outcome of the dedup stage for one crawl.
func RecordDedup(candidates, survivors int) {
	if dropped := candidates - survivors; dropped > 0 {
		OpportunitiesDuplicateTotal.Add(float64(dropped))
	}
	if survivors > 0 {
		OpportunitiesStagedTotal.Add(float64(survivors))
	}
}

// RecordDraftPersistError records a candidate skipped because its stub or
// draft could not be stored.
func RecordDraftPersistError() {
	DraftPersistErrorsTotal.Inc()
}

// RecordPageFetchSuccess records a successful page fetch.
func RecordPageFetchSuccess(duration time.Duration, size int) {
	PageFetchAttemptsTotal.WithLabelValues("success").Inc()
	PageFetchDuration.Observe(duration.Seconds())
	PageFetchSize.Observe(float64(size))
}

// RecordPageFetchFailed records a failed page fetch. Result classifies the
// failure: "timeout", "http_status", "network", or "content_type".
func RecordPageFetchFailed(result string, duration time.Duration) {
	PageFetchAttemptsTotal.WithLabelValues(result).Inc()
	PageFetchDuration.Observe(duration.Seconds())
}

// UpdateSourcesByStatus updates the registered-sources gauge for one status.
// Should be refreshed periodically from the registry.
func UpdateSourcesByStatus(status string, count int) {
	SourcesTotal.WithLabelValues(status).Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_sources", "insert_draft").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
