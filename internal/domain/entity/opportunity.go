package entity

import "time"

// OpportunityType classifies an extracted posting.
type OpportunityType string

const (
	TypeScholarship OpportunityType = "scholarship"
	TypeInternship  OpportunityType = "internship"
	TypeFellowship  OpportunityType = "fellowship"
	TypeGrant       OpportunityType = "grant"
)

// Valid reports whether the type is one of the known values.
func (t OpportunityType) Valid() bool {
	switch t {
	case TypeScholarship, TypeInternship, TypeFellowship, TypeGrant:
		return true
	}
	return false
}

// ParsedOpportunity is the ephemeral output of AI extraction. It is never
// persisted directly; surviving candidates become an Opportunity stub plus
// an AIDraft.
type ParsedOpportunity struct {
	Title       string          `json:"title"`
	Type        OpportunityType `json:"type"`
	Description string          `json:"description"`
	Deadline    string          `json:"deadline,omitempty"` // ISO date (YYYY-MM-DD)
	Location    string          `json:"location"`
	Amount      *string         `json:"amount"`
	Link        string          `json:"link"`
	Category    string          `json:"category"`
}

// OpportunityStatus is the publication status of an opportunity record.
// The pipeline only ever creates draft-status stubs; promotion beyond
// draft is a review-collaborator concern.
type OpportunityStatus string

const (
	OpportunityDraft     OpportunityStatus = "draft"
	OpportunityPublished OpportunityStatus = "published"
)

// Opportunity is the minimal stub the pipeline creates for each staged
// candidate. Enrichment (eligibility, benefits, instructions) is deferred
// to the review collaborator.
type Opportunity struct {
	ID          int64
	Title       string
	Type        OpportunityType
	Description string
	Deadline    time.Time
	Location    string
	Link        string
	Status      OpportunityStatus
	CreatedAt   time.Time
}

// DefaultDeadlineOffset is applied when a candidate has no parsable deadline.
const DefaultDeadlineOffset = 30 * 24 * time.Hour

// ResolveDeadline parses an ISO (YYYY-MM-DD) deadline string, falling back
// to now+30 days when the value is absent or unparsable.
func ResolveDeadline(raw string, now time.Time) time.Time {
	if raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
	}
	return now.Add(DefaultDeadlineOffset)
}

// NewOpportunityStub builds the draft-status stub persisted alongside an
// AIDraft. Missing location defaults to "Remote".
func NewOpportunityStub(p ParsedOpportunity, now time.Time) *Opportunity {
	location := p.Location
	if location == "" {
		location = "Remote"
	}
	return &Opportunity{
		Title:       p.Title,
		Type:        p.Type,
		Description: p.Description,
		Deadline:    ResolveDeadline(p.Deadline, now),
		Location:    location,
		Link:        p.Link,
		Status:      OpportunityDraft,
		CreatedAt:   now,
	}
}
