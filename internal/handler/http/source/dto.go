package source

import (
	"time"

	"opportunity-scout/internal/domain/entity"
)

type DTO struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Status       string     `json:"status"`
	Frequency    string     `json:"frequency"`
	MaxResults   int        `json:"max_results"`
	LastCrawl    *time.Time `json:"last_crawl,omitempty"`
	LastSuccess  bool       `json:"last_success"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func toDTO(src *entity.CrawlSource) DTO {
	return DTO{
		ID:           src.ID,
		Name:         src.Name,
		URL:          src.URL,
		Status:       string(src.Status),
		Frequency:    string(src.Frequency),
		MaxResults:   src.MaxResults,
		LastCrawl:    src.LastCrawl,
		LastSuccess:  src.LastSuccess,
		ErrorMessage: src.ErrorMessage,
		CreatedAt:    src.CreatedAt,
		UpdatedAt:    src.UpdatedAt,
	}
}

func toDTOs(list []*entity.CrawlSource) []DTO {
	out := make([]DTO, 0, len(list))
	for _, src := range list {
		out = append(out, toDTO(src))
	}
	return out
}

type logDTO struct {
	ID           int64      `json:"id"`
	SourceID     int64      `json:"source_id"`
	Status       string     `json:"status"`
	ItemsFound   int        `json:"items_found"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func toLogDTOs(logs []*entity.CrawlLog) []logDTO {
	out := make([]logDTO, 0, len(logs))
	for _, log := range logs {
		out = append(out, logDTO{
			ID:           log.ID,
			SourceID:     log.SourceID,
			Status:       string(log.Status),
			ItemsFound:   log.ItemsFound,
			ErrorMessage: log.ErrorMessage,
			StartedAt:    log.StartedAt,
			CompletedAt:  log.CompletedAt,
		})
	}
	return out
}
