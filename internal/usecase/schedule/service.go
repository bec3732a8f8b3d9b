// Package schedule decides which crawl sources are due for crawling.
// Due-ness is a pure function of the source's frequency window and its
// last crawl time; the worker scans due sources on a cron schedule and
// the API exposes them for inspection.
package schedule

import (
	"context"
	"fmt"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

// Service lists active and due sources for the crawl scheduler.
type Service struct {
	Sources repository.SourceRepository

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

// NewService creates a schedule Service backed by the given source repository.
func NewService(sources repository.SourceRepository) Service {
	return Service{Sources: sources, now: time.Now}
}

// GetActiveSources returns all sources with status active, ordered by
// last crawl time ascending with never-crawled sources first.
func (s *Service) GetActiveSources(ctx context.Context) ([]*entity.CrawlSource, error) {
	sources, err := s.Sources.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}
	return sources, nil
}

// GetDueSources returns the subset of active sources whose frequency
// window has elapsed since their last crawl. Never-crawled sources are
// always due. Order follows GetActiveSources: oldest crawl first.
func (s *Service) GetDueSources(ctx context.Context) ([]*entity.CrawlSource, error) {
	sources, err := s.GetActiveSources(ctx)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()()
	due := make([]*entity.CrawlSource, 0, len(sources))
	for _, src := range sources {
		if src.IsDue(now) {
			due = append(due, src)
		}
	}
	return due, nil
}

func (s *Service) nowFn() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
