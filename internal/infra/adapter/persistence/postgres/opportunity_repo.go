package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

type OpportunityRepo struct{ db *sql.DB }

func NewOpportunityRepo(db *sql.DB) repository.OpportunityRepository {
	return &OpportunityRepo{db: db}
}

func (repo *OpportunityRepo) Create(ctx context.Context, opp *entity.Opportunity) error {
	const query = `
INSERT INTO opportunities (title, type, description, deadline, location, link, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		opp.Title, opp.Type, opp.Description, opp.Deadline,
		opp.Location, opp.Link, opp.Status, opp.CreatedAt,
	).Scan(&opp.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// FindKeysByTitles resolves dedup keys for all titles in one round trip.
// The pgx driver binds the []string parameter as a text array.
func (repo *OpportunityRepo) FindKeysByTitles(ctx context.Context, titles []string) ([]repository.OpportunityKey, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	const query = `
SELECT title, link, to_char(deadline, 'YYYY-MM-DD')
FROM opportunities
WHERE title = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, titles)
	if err != nil {
		return nil, fmt.Errorf("FindKeysByTitles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]repository.OpportunityKey, 0, len(titles))
	for rows.Next() {
		var key repository.OpportunityKey
		var link sql.NullString
		if err := rows.Scan(&key.Title, &link, &key.Deadline); err != nil {
			return nil, fmt.Errorf("FindKeysByTitles: Scan: %w", err)
		}
		key.Link = link.String
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
