package crawl

import "opportunity-scout/internal/domain/entity"

// Pipeline stage events. Each stage takes one of these immutable values off
// its queue and produces the next event or a terminal notification; no state
// is shared between stages beyond the repositories.

// CrawlRequest asks the fetch stage to retrieve a source's page.
type CrawlRequest struct {
	LogID  int64
	Source *entity.CrawlSource
}

// ContentCrawled carries fetched, sanitized page content to the extraction
// stage.
type ContentCrawled struct {
	LogID      int64
	SourceID   int64
	SourceURL  string
	MaxResults int
	Content    string
}

// ContentParsed carries extracted candidates to the dedup/persist stage.
// Content is the sanitized page the candidates were extracted from; drafts
// keep it so a reviewer can re-run extraction against the same input.
type ContentParsed struct {
	LogID         int64
	SourceID      int64
	SourceURL     string
	Content       string
	Opportunities []entity.ParsedOpportunity
}

// Notification is a terminal pipeline event consumed by the logging and
// metrics loop. It carries no further pipeline obligation.
type Notification interface {
	notification()
}

// OpportunitiesExtracted signals a crawl that reached a successful terminal
// state, with the number of unique opportunities staged.
type OpportunitiesExtracted struct {
	LogID      int64
	SourceID   int64
	ItemsFound int
}

// ParsingFailed signals a crawl that reached a failed terminal state.
type ParsingFailed struct {
	LogID    int64
	SourceID int64
	Message  string
}

func (OpportunitiesExtracted) notification() {}
func (ParsingFailed) notification()          {}
