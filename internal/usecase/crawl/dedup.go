package crawl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

// Deduplicator filters candidates that already exist in the opportunity
// store. A candidate is a duplicate when a persisted opportunity shares its
// title and either its link or its deadline. Similarity between candidates
// in the same batch never rejects anything; only persisted data counts.
type Deduplicator struct {
	Opportunities repository.OpportunityRepository
}

// NewDeduplicator creates a Deduplicator backed by the given store.
func NewDeduplicator(opportunities repository.OpportunityRepository) Deduplicator {
	return Deduplicator{Opportunities: opportunities}
}

// FilterDuplicates returns the candidates not already present in the store.
// Existing records are looked up in one batch query by title to avoid a
// per-candidate round trip.
func (d *Deduplicator) FilterDuplicates(ctx context.Context, candidates []entity.ParsedOpportunity) ([]entity.ParsedOpportunity, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	titles := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		title := strings.TrimSpace(c.Title)
		if title == "" || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}

	existing, err := d.Opportunities.FindKeysByTitles(ctx, titles)
	if err != nil {
		return nil, fmt.Errorf("find existing opportunities: %w", err)
	}

	byTitle := make(map[string][]repository.OpportunityKey, len(existing))
	for _, key := range existing {
		title := strings.TrimSpace(key.Title)
		byTitle[title] = append(byTitle[title], key)
	}

	survivors := make([]entity.ParsedOpportunity, 0, len(candidates))
	for _, c := range candidates {
		if d.isDuplicate(c, byTitle) {
			continue
		}
		survivors = append(survivors, c)
	}
	return survivors, nil
}

func (d *Deduplicator) isDuplicate(c entity.ParsedOpportunity, byTitle map[string][]repository.OpportunityKey) bool {
	keys, ok := byTitle[strings.TrimSpace(c.Title)]
	if !ok {
		return false
	}

	link := strings.TrimSpace(c.Link)
	deadline := normalizeDeadline(c.Deadline)

	for _, key := range keys {
		if link != "" && link == strings.TrimSpace(key.Link) {
			return true
		}
		if deadline != "" && deadline == key.Deadline {
			return true
		}
	}
	return false
}

// normalizeDeadline canonicalizes a raw deadline for comparison.
// Unparsable deadlines never match anything.
func normalizeDeadline(raw string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}
