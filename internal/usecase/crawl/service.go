// Package crawl implements the crawl orchestration: the startCrawl state
// machine, the asynchronous fetch → extract → dedup/persist pipeline, and
// the log, stats, and health queries built on top of the crawl history.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

// defaultLogLimit bounds log list queries when the caller passes no limit.
const defaultLogLimit = 20

// Service provides crawl orchestration use cases.
type Service struct {
	Sources  repository.SourceRepository
	Logs     repository.CrawlLogRepository
	Pipeline *Pipeline
}

// NewService creates a crawl Service. The pipeline must be started by the
// caller before crawls are submitted.
func NewService(sources repository.SourceRepository, logs repository.CrawlLogRepository, pipeline *Pipeline) Service {
	return Service{Sources: sources, Logs: logs, Pipeline: pipeline}
}

// StartCrawl begins a crawl for the source and returns its running log
// immediately; the fetch → extract → persist chain runs detached. The
// returned Handle resolves when the crawl reaches a terminal state; callers
// that only need the log may discard it.
//
// Fails with ErrSourceNotFound, ErrSourceNotActive, or ErrCrawlInProgress
// before any state change. Once the log exists, later failures are recorded
// onto it, never returned here.
func (s *Service) StartCrawl(ctx context.Context, sourceID int64) (*entity.CrawlLog, *Handle, error) {
	src, err := s.Sources.Get(ctx, sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, nil, ErrSourceNotFound
	}
	if src.Status != entity.SourceActive {
		return nil, nil, fmt.Errorf("%w: source %d is %s", ErrSourceNotActive, sourceID, src.Status)
	}

	running, err := s.Logs.HasRunning(ctx, sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("check running crawl: %w", err)
	}
	if running {
		return nil, nil, ErrCrawlInProgress
	}

	now := time.Now()
	log := &entity.CrawlLog{
		SourceID:  sourceID,
		Status:    entity.CrawlRunning,
		StartedAt: now,
	}
	if err := s.Logs.Create(ctx, log); err != nil {
		return nil, nil, fmt.Errorf("create crawl log: %w", err)
	}
	if err := s.Sources.TouchCrawledAt(ctx, sourceID, now); err != nil {
		return nil, nil, fmt.Errorf("update source crawl timestamp: %w", err)
	}

	handle, err := s.Pipeline.Submit(ctx, CrawlRequest{LogID: log.ID, Source: src})
	if err != nil {
		// The log would otherwise stay running forever.
		msg := fmt.Sprintf("crawl not started: %v", err)
		if markErr := s.Logs.MarkFailed(ctx, log.ID, msg, time.Now()); markErr != nil {
			slog.Error("failed to mark unsubmitted crawl log",
				slog.Int64("log_id", log.ID), slog.Any("error", markErr))
		}
		return nil, nil, fmt.Errorf("submit crawl: %w", err)
	}

	slog.Info("crawl started",
		slog.Int64("log_id", log.ID),
		slog.Int64("source_id", sourceID),
		slog.String("url", src.URL))
	return log, handle, nil
}

// GetCrawlLogs returns the most recent logs for one source, newest first.
func (s *Service) GetCrawlLogs(ctx context.Context, sourceID int64, limit int) ([]*entity.CrawlLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	src, err := s.Sources.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	logs, err := s.Logs.ListBySource(ctx, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("list crawl logs: %w", err)
	}
	return logs, nil
}

// GetRecentCrawlLogs returns the most recent logs across all sources.
func (s *Service) GetRecentCrawlLogs(ctx context.Context, limit int) ([]*entity.CrawlLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	logs, err := s.Logs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent crawl logs: %w", err)
	}
	return logs, nil
}
