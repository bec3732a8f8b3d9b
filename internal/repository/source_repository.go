// Package repository defines the persistence interfaces consumed by the
// use case layer. Concrete adapters live under internal/infra/adapter.
package repository

import (
	"context"
	"time"

	"opportunity-scout/internal/domain/entity"
)

// SourceFilter narrows List results. Zero values mean "no filter";
// Search matches name or URL as a case-insensitive substring.
type SourceFilter struct {
	Status    entity.SourceStatus
	Frequency entity.Frequency
	Search    string
}

type SourceRepository interface {
	Get(ctx context.Context, id int64) (*entity.CrawlSource, error)
	List(ctx context.Context, filter SourceFilter) ([]*entity.CrawlSource, error)
	// ListActive returns active sources ordered by last_crawl ascending,
	// never-crawled sources first.
	ListActive(ctx context.Context) ([]*entity.CrawlSource, error)
	// ExistsByURL reports whether another source (excluding excludeID,
	// 0 to exclude none) already uses the URL.
	ExistsByURL(ctx context.Context, url string, excludeID int64) (bool, error)
	Create(ctx context.Context, source *entity.CrawlSource) error
	Update(ctx context.Context, source *entity.CrawlSource) error
	Delete(ctx context.Context, id int64) error
	// TouchCrawledAt records the start of a crawl attempt.
	TouchCrawledAt(ctx context.Context, id int64, t time.Time) error
	// SetCrawlResult records the terminal outcome of a crawl attempt on the
	// source. A nil errorMessage clears any previous error.
	SetCrawlResult(ctx context.Context, id int64, lastSuccess bool, errorMessage *string) error
	// CountByStatus returns source counts grouped by status.
	CountByStatus(ctx context.Context) (map[entity.SourceStatus]int, error)
}
