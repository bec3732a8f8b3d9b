package repository

import (
	"context"

	"opportunity-scout/internal/domain/entity"
)

// OpportunityKey identifies an existing opportunity for dedup matching.
// Link and Deadline come from the persisted record; Deadline is formatted
// as an ISO date (YYYY-MM-DD).
type OpportunityKey struct {
	Title    string
	Link     string
	Deadline string
}

type OpportunityRepository interface {
	// Create persists a stub opportunity and fills in its ID.
	Create(ctx context.Context, opp *entity.Opportunity) error
	// FindKeysByTitles returns dedup keys for all persisted opportunities
	// whose title matches one of the given titles. Batch lookup avoids an
	// N+1 query per candidate.
	FindKeysByTitles(ctx context.Context, titles []string) ([]OpportunityKey, error)
}
