package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

type DraftRepo struct{ db *sql.DB }

func NewDraftRepo(db *sql.DB) repository.DraftRepository {
	return &DraftRepo{db: db}
}

const draftColumns = `id, title, source, status, priority, raw_content, parsed, opportunity_id, created_at`

func scanDraft(rows *sql.Rows) (*entity.AIDraft, error) {
	var draft entity.AIDraft
	if err := rows.Scan(
		&draft.ID, &draft.Title, &draft.Source, &draft.Status, &draft.Priority,
		&draft.RawContent, &draft.RawParsedJSON, &draft.OpportunityID, &draft.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(draft.RawParsedJSON) > 0 {
		if err := json.Unmarshal(draft.RawParsedJSON, &draft.Parsed); err != nil {
			return nil, fmt.Errorf("unmarshal parsed candidate: %w", err)
		}
	}
	return &draft, nil
}

func (repo *DraftRepo) Create(ctx context.Context, draft *entity.AIDraft) error {
	parsed := draft.RawParsedJSON
	if len(parsed) == 0 {
		var err error
		parsed, err = json.Marshal(draft.Parsed)
		if err != nil {
			return fmt.Errorf("Create: marshal parsed candidate: %w", err)
		}
		draft.RawParsedJSON = parsed
	}

	const query = `
INSERT INTO ai_drafts (title, source, status, priority, raw_content, parsed, opportunity_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		draft.Title, draft.Source, draft.Status, draft.Priority,
		draft.RawContent, parsed, draft.OpportunityID, draft.CreatedAt,
	).Scan(&draft.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DraftRepo) Get(ctx context.Context, id int64) (*entity.AIDraft, error) {
	const query = `
SELECT ` + draftColumns + `
FROM ai_drafts
WHERE id = $1
LIMIT 1`
	var draft entity.AIDraft
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&draft.ID, &draft.Title, &draft.Source, &draft.Status, &draft.Priority,
		&draft.RawContent, &draft.RawParsedJSON, &draft.OpportunityID, &draft.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if len(draft.RawParsedJSON) > 0 {
		if err := json.Unmarshal(draft.RawParsedJSON, &draft.Parsed); err != nil {
			return nil, fmt.Errorf("Get: unmarshal parsed candidate: %w", err)
		}
	}
	return &draft, nil
}

func (repo *DraftRepo) ListPending(ctx context.Context, limit int) ([]*entity.AIDraft, error) {
	const query = `
SELECT ` + draftColumns + `
FROM ai_drafts
WHERE status = 'pending'
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListPending: %w", err)
	}
	defer func() { _ = rows.Close() }()

	drafts := make([]*entity.AIDraft, 0, limit)
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("ListPending: %w", err)
		}
		drafts = append(drafts, draft)
	}
	return drafts, rows.Err()
}
