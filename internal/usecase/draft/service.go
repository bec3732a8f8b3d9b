// Package draft exposes the review queue: pending drafts staged by the
// crawl pipeline, read-only until a review collaborator picks them up.
package draft

import (
	"context"
	"errors"
	"fmt"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

// ErrDraftNotFound is returned when the requested draft does not exist.
var ErrDraftNotFound = errors.New("draft not found")

// defaultListLimit bounds pending list queries when no limit is given.
const defaultListLimit = 20

// Service provides draft review queue use cases.
type Service struct {
	Drafts repository.DraftRepository
}

func NewService(drafts repository.DraftRepository) Service {
	return Service{Drafts: drafts}
}

// ListPending returns pending drafts, newest first.
func (s *Service) ListPending(ctx context.Context, limit int) ([]*entity.AIDraft, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	drafts, err := s.Drafts.ListPending(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending drafts: %w", err)
	}
	return drafts, nil
}

// Get returns one draft or ErrDraftNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*entity.AIDraft, error) {
	draft, err := s.Drafts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}
	return draft, nil
}
