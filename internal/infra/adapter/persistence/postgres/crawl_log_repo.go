package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

type CrawlLogRepo struct{ db *sql.DB }

func NewCrawlLogRepo(db *sql.DB) repository.CrawlLogRepository {
	return &CrawlLogRepo{db: db}
}

const crawlLogColumns = `id, source_id, status, items_found, error_message, started_at, completed_at`

func scanCrawlLog(rows *sql.Rows) (*entity.CrawlLog, error) {
	var log entity.CrawlLog
	if err := rows.Scan(
		&log.ID, &log.SourceID, &log.Status, &log.ItemsFound,
		&log.ErrorMessage, &log.StartedAt, &log.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &log, nil
}

func (repo *CrawlLogRepo) Get(ctx context.Context, id int64) (*entity.CrawlLog, error) {
	const query = `
SELECT ` + crawlLogColumns + `
FROM crawl_logs
WHERE id = $1
LIMIT 1`
	var log entity.CrawlLog
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&log.ID, &log.SourceID, &log.Status, &log.ItemsFound,
		&log.ErrorMessage, &log.StartedAt, &log.CompletedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &log, nil
}

func (repo *CrawlLogRepo) ListBySource(ctx context.Context, sourceID int64, limit int) ([]*entity.CrawlLog, error) {
	const query = `
SELECT ` + crawlLogColumns + `
FROM crawl_logs
WHERE source_id = $1
ORDER BY started_at DESC, id DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListBySource: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.CrawlLog, 0, limit)
	for rows.Next() {
		log, err := scanCrawlLog(rows)
		if err != nil {
			return nil, fmt.Errorf("ListBySource: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (repo *CrawlLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.CrawlLog, error) {
	const query = `
SELECT ` + crawlLogColumns + `
FROM crawl_logs
ORDER BY started_at DESC, id DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	logs := make([]*entity.CrawlLog, 0, limit)
	for rows.Next() {
		log, err := scanCrawlLog(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (repo *CrawlLogRepo) HasRunning(ctx context.Context, sourceID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM crawl_logs WHERE source_id = $1 AND status = 'running')`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, sourceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("HasRunning: %w", err)
	}
	return exists, nil
}

func (repo *CrawlLogRepo) Create(ctx context.Context, log *entity.CrawlLog) error {
	const query = `
INSERT INTO crawl_logs (source_id, status, items_found, error_message, started_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		log.SourceID, log.Status, log.ItemsFound,
		log.ErrorMessage, log.StartedAt, log.CompletedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// MarkSuccess guards on the running status so a terminal log is never
// rewritten by a late pipeline stage.
func (repo *CrawlLogRepo) MarkSuccess(ctx context.Context, id int64, itemsFound int, completedAt time.Time) error {
	const query = `
UPDATE crawl_logs SET
       status        = 'success',
       items_found   = $1,
       error_message = NULL,
       completed_at  = $2
WHERE id = $3 AND status = 'running'`
	res, err := repo.db.ExecContext(ctx, query, itemsFound, completedAt, id)
	if err != nil {
		return fmt.Errorf("MarkSuccess: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkSuccess: no running log with id %d", id)
	}
	return nil
}

func (repo *CrawlLogRepo) MarkFailed(ctx context.Context, id int64, errorMessage string, completedAt time.Time) error {
	const query = `
UPDATE crawl_logs SET
       status        = 'failed',
       error_message = $1,
       completed_at  = $2
WHERE id = $3 AND status = 'running'`
	res, err := repo.db.ExecContext(ctx, query, errorMessage, completedAt, id)
	if err != nil {
		return fmt.Errorf("MarkFailed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkFailed: no running log with id %d", id)
	}
	return nil
}

func (repo *CrawlLogRepo) CountByStatus(ctx context.Context) (map[entity.CrawlStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM crawl_logs GROUP BY status`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByStatus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[entity.CrawlStatus]int)
	for rows.Next() {
		var status entity.CrawlStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("CountByStatus: Scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
