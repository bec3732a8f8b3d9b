package crawl

import (
	"context"
	"fmt"
	"math"

	"opportunity-scout/internal/domain/entity"
)

// CrawlStats aggregates registry and crawl history counts.
// SuccessRate is the percentage of terminal logs that succeeded, rounded to
// two decimals; 0 when no logs exist.
type CrawlStats struct {
	SourcesByStatus map[entity.SourceStatus]int `json:"sources_by_status"`
	LogsByStatus    map[entity.CrawlStatus]int  `json:"logs_by_status"`
	TotalLogs       int                         `json:"total_logs"`
	SuccessRate     float64                     `json:"success_rate"`
}

// GetCrawlStats returns counts of sources by status and logs by status plus
// the derived success rate.
func (s *Service) GetCrawlStats(ctx context.Context) (*CrawlStats, error) {
	sources, err := s.Sources.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}
	logs, err := s.Logs.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count crawl logs: %w", err)
	}

	total := 0
	for _, n := range logs {
		total += n
	}

	rate := 0.0
	if total > 0 {
		rate = float64(logs[entity.CrawlSuccess]) / float64(total) * 100
		rate = math.Round(rate*100) / 100
	}

	return &CrawlStats{
		SourcesByStatus: sources,
		LogsByStatus:    logs,
		TotalLogs:       total,
		SuccessRate:     rate,
	}, nil
}
