package entity

import "time"

// DraftStatus is the review status of a staged candidate.
type DraftStatus string

const (
	DraftPending  DraftStatus = "pending"
	DraftApproved DraftStatus = "approved"
	DraftRejected DraftStatus = "rejected"
)

// Valid reports whether the status is one of the known values.
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftPending, DraftApproved, DraftRejected:
		return true
	}
	return false
}

// Priority is the urgency/value signal attached to a draft.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// AIDraft is a staged candidate awaiting human review. The pipeline creates
// drafts with DraftPending status and never mutates them afterwards; the
// review collaborator owns approve/reject/edit.
type AIDraft struct {
	ID            int64
	Title         string
	Source        string // origin identifier: the crawled source URL
	Status        DraftStatus
	Priority      Priority
	RawContent    string // extraction input, kept for reprocessing
	Parsed        ParsedOpportunity
	RawParsedJSON []byte // structured copy of the candidate as emitted by the extractor
	OpportunityID int64  // linked stub opportunity
	CreatedAt     time.Time
}
