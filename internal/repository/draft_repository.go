package repository

import (
	"context"

	"opportunity-scout/internal/domain/entity"
)

// DraftRepository persists staged candidates. The pipeline only creates
// drafts; status mutation belongs to the review collaborator and is not
// part of this interface.
type DraftRepository interface {
	// Create persists a pending draft and fills in its ID.
	Create(ctx context.Context, draft *entity.AIDraft) error
	Get(ctx context.Context, id int64) (*entity.AIDraft, error)
	// ListPending returns pending drafts, newest first, for review handoff.
	ListPending(ctx context.Context, limit int) ([]*entity.AIDraft, error)
}
