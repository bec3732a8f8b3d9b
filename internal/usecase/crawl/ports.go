package crawl

import (
	"context"

	"opportunity-scout/internal/domain/entity"
)

// PageFetcher retrieves and sanitizes the HTML content of a source page.
// Implementations return one of the fetch failure classes in errors.go
// (ErrFetchTimeout, ErrNetwork, ErrUnsupportedContentType, *HTTPStatusError)
// so the pipeline can record a precise failure reason on the crawl log.
type PageFetcher interface {
	FetchPageContent(ctx context.Context, url string) (string, error)
}

// Extractor turns sanitized page content into opportunity candidates.
// A malformed model response yields an empty slice, not an error; only
// transport-level failures reach the caller, and the pipeline treats those
// as zero candidates as well.
type Extractor interface {
	ParseContentToOpportunities(ctx context.Context, content string, maxResults int) ([]entity.ParsedOpportunity, error)
}
