// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as CrawlSource, CrawlLog and AIDraft,
// along with their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"time"
)

// SourceStatus is the lifecycle status of a crawl source.
type SourceStatus string

const (
	SourceActive   SourceStatus = "active"
	SourcePaused   SourceStatus = "paused"
	SourceDisabled SourceStatus = "disabled"
)

// Valid reports whether the status is one of the known values.
func (s SourceStatus) Valid() bool {
	switch s {
	case SourceActive, SourcePaused, SourceDisabled:
		return true
	}
	return false
}

// Frequency is how often a source should be crawled.
type Frequency string

const (
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether the frequency is one of the known values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyHourly, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Window returns the minimum interval between crawls for the frequency.
// Monthly is approximated as 30 days.
func (f Frequency) Window() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	}
	return 24 * time.Hour
}

const (
	// MinMaxResults and MaxMaxResults bound CrawlSource.MaxResults.
	MinMaxResults = 1
	MaxMaxResults = 1000
)

// CrawlSource is a registered web origin to be periodically visited.
// URL is unique across sources; Status and Frequency drive the due scheduler.
type CrawlSource struct {
	ID           int64
	Name         string
	URL          string
	Status       SourceStatus
	Frequency    Frequency
	MaxResults   int
	LastCrawl    *time.Time
	LastSuccess  bool
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the source fields against the domain rules.
// It does not check URL uniqueness; that is a repository concern.
func (s *CrawlSource) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if err := ValidateURL(s.URL); err != nil {
		return err
	}
	if !s.Status.Valid() {
		return &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of active, paused, disabled (got %q)", s.Status),
		}
	}
	if !s.Frequency.Valid() {
		return &ValidationError{
			Field:   "frequency",
			Message: fmt.Sprintf("must be one of hourly, daily, weekly, monthly (got %q)", s.Frequency),
		}
	}
	if s.MaxResults < MinMaxResults || s.MaxResults > MaxMaxResults {
		return &ValidationError{
			Field:   "maxResults",
			Message: fmt.Sprintf("must be between %d and %d (got %d)", MinMaxResults, MaxMaxResults, s.MaxResults),
		}
	}
	return nil
}

// IsDue reports whether the source is due for a crawl at the given time.
// A never-crawled source is always due.
func (s *CrawlSource) IsDue(now time.Time) bool {
	if s.LastCrawl == nil {
		return true
	}
	return now.Sub(*s.LastCrawl) > s.Frequency.Window()
}
