// Package draft exposes the pending review queue over HTTP.
package draft

import (
	"time"

	"opportunity-scout/internal/domain/entity"
)

type DTO struct {
	ID            int64                    `json:"id"`
	Title         string                   `json:"title"`
	Source        string                   `json:"source"`
	Status        string                   `json:"status"`
	Priority      string                   `json:"priority"`
	Parsed        entity.ParsedOpportunity `json:"parsed"`
	OpportunityID int64                    `json:"opportunity_id"`
	CreatedAt     time.Time                `json:"created_at"`
}

func toDTO(d *entity.AIDraft) DTO {
	return DTO{
		ID:            d.ID,
		Title:         d.Title,
		Source:        d.Source,
		Status:        string(d.Status),
		Priority:      string(d.Priority),
		Parsed:        d.Parsed,
		OpportunityID: d.OpportunityID,
		CreatedAt:     d.CreatedAt,
	}
}

func toDTOs(drafts []*entity.AIDraft) []DTO {
	out := make([]DTO, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, toDTO(d))
	}
	return out
}
