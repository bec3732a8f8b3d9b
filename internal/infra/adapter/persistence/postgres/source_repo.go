package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

const sourceColumns = `id, name, url, status, frequency, max_results,
       last_crawl, last_success, error_message, created_at, updated_at`

// scanSource is a helper to scan one crawl source row.
func scanSource(rows *sql.Rows) (*entity.CrawlSource, error) {
	var src entity.CrawlSource
	if err := rows.Scan(
		&src.ID, &src.Name, &src.URL, &src.Status, &src.Frequency, &src.MaxResults,
		&src.LastCrawl, &src.LastSuccess, &src.ErrorMessage, &src.CreatedAt, &src.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &src, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.CrawlSource, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM crawl_sources
WHERE id = $1
LIMIT 1`
	var src entity.CrawlSource
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&src.ID, &src.Name, &src.URL, &src.Status, &src.Frequency, &src.MaxResults,
		&src.LastCrawl, &src.LastSuccess, &src.ErrorMessage, &src.CreatedAt, &src.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &src, nil
}

func (repo *SourceRepo) List(ctx context.Context, filter repository.SourceFilter) ([]*entity.CrawlSource, error) {
	query := `
SELECT ` + sourceColumns + `
FROM crawl_sources
WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Frequency != "" {
		args = append(args, filter.Frequency)
		query += fmt.Sprintf(" AND frequency = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR url ILIKE $%d)", len(args), len(args))
	}
	query += "\nORDER BY id ASC"

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.CrawlSource, 0, 50)
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

// ListActive orders never-crawled sources first so they are picked up on
// the next scheduler scan.
func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.CrawlSource, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM crawl_sources
WHERE status = 'active'
ORDER BY last_crawl ASC NULLS FIRST, id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.CrawlSource, 0, 50)
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) ExistsByURL(ctx context.Context, url string, excludeID int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM crawl_sources WHERE url = $1 AND id <> $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}

func (repo *SourceRepo) Create(ctx context.Context, source *entity.CrawlSource) error {
	const query = `
INSERT INTO crawl_sources (name, url, status, frequency, max_results, last_crawl, last_success, error_message)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`
	err := repo.db.QueryRowContext(ctx, query,
		source.Name, source.URL, source.Status, source.Frequency,
		source.MaxResults, source.LastCrawl, source.LastSuccess, source.ErrorMessage,
	).Scan(&source.ID, &source.CreatedAt, &source.UpdatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.CrawlSource) error {
	const query = `
UPDATE crawl_sources SET
       name          = $1,
       url           = $2,
       status        = $3,
       frequency     = $4,
       max_results   = $5,
       updated_at    = NOW()
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		source.Name, source.URL, source.Status, source.Frequency,
		source.MaxResults, source.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM crawl_sources WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *SourceRepo) TouchCrawledAt(ctx context.Context, id int64, t time.Time) error {
	const query = `UPDATE crawl_sources SET last_crawl = $1, updated_at = NOW() WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, t, id)
	return err
}

func (repo *SourceRepo) SetCrawlResult(ctx context.Context, id int64, lastSuccess bool, errorMessage *string) error {
	const query = `
UPDATE crawl_sources SET
       last_success  = $1,
       error_message = $2,
       updated_at    = NOW()
WHERE id = $3`
	_, err := repo.db.ExecContext(ctx, query, lastSuccess, errorMessage, id)
	if err != nil {
		return fmt.Errorf("SetCrawlResult: %w", err)
	}
	return nil
}

func (repo *SourceRepo) CountByStatus(ctx context.Context) (map[entity.SourceStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM crawl_sources GROUP BY status`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByStatus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[entity.SourceStatus]int)
	for rows.Next() {
		var status entity.SourceStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("CountByStatus: Scan: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
