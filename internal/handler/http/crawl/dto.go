// Package crawl exposes crawl orchestration over HTTP: starting crawls,
// log history, aggregate stats, and per-source health.
package crawl

import (
	"time"

	"opportunity-scout/internal/domain/entity"
)

type logDTO struct {
	ID           int64      `json:"id"`
	SourceID     int64      `json:"source_id"`
	Status       string     `json:"status"`
	ItemsFound   int        `json:"items_found"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toLogDTO(log *entity.CrawlLog) logDTO {
	return logDTO{
		ID:           log.ID,
		SourceID:     log.SourceID,
		Status:       string(log.Status),
		ItemsFound:   log.ItemsFound,
		ErrorMessage: log.ErrorMessage,
		StartedAt:    log.StartedAt,
		CompletedAt:  log.CompletedAt,
	}
}

func toLogDTOs(logs []*entity.CrawlLog) []logDTO {
	out := make([]logDTO, 0, len(logs))
	for _, log := range logs {
		out = append(out, toLogDTO(log))
	}
	return out
}
