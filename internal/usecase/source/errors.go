// Package source provides use cases for managing crawl sources.
// It implements business logic for creating, updating, deleting, and querying
// sources, including validation and interaction with the source repository.
package source

import "errors"

// Sentinel errors for source use case operations.
var (
	// ErrSourceNotFound indicates that the requested source was not found.
	ErrSourceNotFound = errors.New("source not found")

	// ErrDuplicateSourceURL indicates that another source already uses the URL.
	// Source URLs are unique across non-deleted sources.
	ErrDuplicateSourceURL = errors.New("source with this URL already exists")

	// ErrCrawlRunning indicates that the source has a crawl in flight, which
	// blocks deletion until the running log reaches a terminal state.
	ErrCrawlRunning = errors.New("source cannot be deleted while a crawl is running")
)
