package crawl

import (
	"context"

	"opportunity-scout/internal/domain/entity"
)

// Outcome is the terminal result of one crawl attempt.
type Outcome struct {
	LogID      int64
	SourceID   int64
	Status     entity.CrawlStatus
	ItemsFound int
	Message    string
}

// Handle is an awaitable view of a detached crawl. StartCrawl returns one
// alongside the log so callers that need the terminal outcome (tests, the
// worker's per-source accounting) can wait for it without polling; HTTP
// callers simply discard it.
type Handle struct {
	logID   int64
	done    chan struct{}
	outcome Outcome
}

func newHandle(logID int64) *Handle {
	return &Handle{logID: logID, done: make(chan struct{})}
}

// complete records the outcome and releases waiters. Must be called at most
// once.
func (h *Handle) complete(o Outcome) {
	h.outcome = o
	close(h.done)
}

// Done returns a channel closed when the crawl reaches a terminal state.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the crawl completes or ctx is cancelled.
func (h *Handle) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-h.done:
		return h.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
