package crawl

import (
	"strings"
	"time"

	"opportunity-scout/internal/domain/entity"
)

// Priority score thresholds.
const (
	highPriorityScore   = 5
	mediumPriorityScore = 3
)

// DeterminePriority scores a candidate additively and maps the score to a
// priority bucket. Pure function: the same candidate and reference time
// always produce the same result.
//
//	amount present:   +2 if it contains "$" or "full", else +1
//	deadline present: +3 if ≤7 days away, +2 if ≤30 days, +1 otherwise
//	type:             fellowship/grant +2, scholarship +1
//
// Score ≥5 → high, ≥3 → medium, else low.
func DeterminePriority(p entity.ParsedOpportunity, now time.Time) entity.Priority {
	score := 0

	if p.Amount != nil && strings.TrimSpace(*p.Amount) != "" {
		amount := strings.ToLower(*p.Amount)
		if strings.Contains(amount, "$") || strings.Contains(amount, "full") {
			score += 2
		} else {
			score++
		}
	}

	if deadline, err := time.Parse("2006-01-02", strings.TrimSpace(p.Deadline)); err == nil {
		until := deadline.Sub(now)
		switch {
		case until <= 7*24*time.Hour:
			score += 3
		case until <= 30*24*time.Hour:
			score += 2
		default:
			score++
		}
	}

	switch p.Type {
	case entity.TypeFellowship, entity.TypeGrant:
		score += 2
	case entity.TypeScholarship:
		score++
	}

	switch {
	case score >= highPriorityScore:
		return entity.PriorityHigh
	case score >= mediumPriorityScore:
		return entity.PriorityMedium
	default:
		return entity.PriorityLow
	}
}
