package crawl

import (
	"context"
	"fmt"

	"opportunity-scout/internal/domain/entity"
)

// healthWindow is how many recent logs the health check inspects.
const healthWindow = 10

// errorFailureThreshold is the consecutive-failure count at which a source
// is reported as error rather than warning.
const errorFailureThreshold = 3

// HealthStatus summarizes how a source has been crawling lately.
type HealthStatus string

const (
	HealthHealthy HealthStatus = "healthy"
	HealthWarning HealthStatus = "warning"
	HealthError   HealthStatus = "error"
)

// SourceHealth is the health record for one source.
type SourceHealth struct {
	SourceID            int64        `json:"source_id"`
	Status              HealthStatus `json:"status"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	AverageItemsFound   float64      `json:"average_items_found"`
	LastSuccess         bool         `json:"last_success"`
	LogsInspected       int          `json:"logs_inspected"`
}

// GetSourceHealth derives a health signal from the source's 10 most recent
// logs (newest first): consecutiveFailures counts the leading failed logs
// before the first success, averageItemsFound is the mean over successful
// logs in the window. Status is error at 3+ consecutive failures, warning
// at 1+ or when the source's last crawl did not succeed, healthy otherwise.
func (s *Service) GetSourceHealth(ctx context.Context, sourceID int64) (*SourceHealth, error) {
	src, err := s.Sources.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}

	logs, err := s.Logs.ListBySource(ctx, sourceID, healthWindow)
	if err != nil {
		return nil, fmt.Errorf("list crawl logs: %w", err)
	}

	consecutive := 0
	for _, log := range logs {
		if log.Status == entity.CrawlSuccess {
			break
		}
		if log.Status == entity.CrawlFailed {
			consecutive++
			continue
		}
		// running/pending logs neither extend nor reset the streak
	}

	successes := 0
	itemsTotal := 0
	for _, log := range logs {
		if log.Status == entity.CrawlSuccess {
			successes++
			itemsTotal += log.ItemsFound
		}
	}
	avgItems := 0.0
	if successes > 0 {
		avgItems = float64(itemsTotal) / float64(successes)
	}

	status := HealthHealthy
	switch {
	case consecutive >= errorFailureThreshold:
		status = HealthError
	case consecutive >= 1 || !src.LastSuccess:
		status = HealthWarning
	}

	return &SourceHealth{
		SourceID:            sourceID,
		Status:              status,
		ConsecutiveFailures: consecutive,
		AverageItemsFound:   avgItems,
		LastSuccess:         src.LastSuccess,
		LogsInspected:       len(logs),
	}, nil
}
