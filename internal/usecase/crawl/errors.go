package crawl

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the requested source does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrSourceNotActive is returned when starting a crawl on a paused or
	// disabled source.
	ErrSourceNotActive = errors.New("source is not active")

	// ErrCrawlInProgress is returned when a running crawl log already exists
	// for the source.
	ErrCrawlInProgress = errors.New("crawl already in progress for source")
)

// Fetch failure classes. Each is distinct so callers can decide whether a
// failed source is worth revisiting on its next schedule tick.
var (
	// ErrFetchTimeout indicates the page request exceeded its deadline.
	ErrFetchTimeout = errors.New("page fetch timed out")

	// ErrNetwork indicates a transport-level failure (DNS, connect, TLS).
	ErrNetwork = errors.New("network error")

	// ErrUnsupportedContentType indicates the response was not HTML.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// HTTPStatusError indicates the server answered with a non-2xx/3xx status.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}
