package repository

import (
	"context"
	"time"

	"opportunity-scout/internal/domain/entity"
)

type CrawlLogRepository interface {
	Get(ctx context.Context, id int64) (*entity.CrawlLog, error)
	// ListBySource returns the most recent logs for a source, newest first.
	ListBySource(ctx context.Context, sourceID int64, limit int) ([]*entity.CrawlLog, error)
	// ListRecent returns the most recent logs across all sources, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.CrawlLog, error)
	// HasRunning reports whether the source currently has a running log.
	HasRunning(ctx context.Context, sourceID int64) (bool, error)
	Create(ctx context.Context, log *entity.CrawlLog) error
	// MarkSuccess transitions a running log to success. Terminal logs are
	// never updated again.
	MarkSuccess(ctx context.Context, id int64, itemsFound int, completedAt time.Time) error
	// MarkFailed transitions a running log to failed with an error message.
	MarkFailed(ctx context.Context, id int64, errorMessage string, completedAt time.Time) error
	// CountByStatus returns log counts grouped by status.
	CountByStatus(ctx context.Context) (map[entity.CrawlStatus]int, error)
}
