package entity

import "time"

// CrawlStatus is the lifecycle status of a single crawl attempt.
// Logs created by the orchestration start at CrawlRunning and end at
// CrawlSuccess or CrawlFailed; CrawlPending exists only as a filter value.
type CrawlStatus string

const (
	CrawlPending CrawlStatus = "pending"
	CrawlRunning CrawlStatus = "running"
	CrawlSuccess CrawlStatus = "success"
	CrawlFailed  CrawlStatus = "failed"
)

// Valid reports whether the status is one of the known values.
func (s CrawlStatus) Valid() bool {
	switch s {
	case CrawlPending, CrawlRunning, CrawlSuccess, CrawlFailed:
		return true
	}
	return false
}

// Terminal reports whether the status is a final state.
func (s CrawlStatus) Terminal() bool {
	return s == CrawlSuccess || s == CrawlFailed
}

// CrawlLog records one attempt to crawl a source.
// At most one log per source may be in the running state at any time;
// a log is immutable once its status is terminal.
type CrawlLog struct {
	ID           int64
	SourceID     int64
	Status       CrawlStatus
	ItemsFound   int
	ErrorMessage *string
	StartedAt    time.Time
	CompletedAt  *time.Time
}
