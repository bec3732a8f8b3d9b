package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"opportunity-scout/internal/domain/entity"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

// DueLister yields the sources whose crawl window has elapsed.
type DueLister interface {
	GetDueSources(ctx context.Context) ([]*entity.CrawlSource, error)
}

// CrawlStarter begins a crawl and hands back its running log.
type CrawlStarter interface {
	StartCrawl(ctx context.Context, sourceID int64) (*entity.CrawlLog, *crawlUC.Handle, error)
}

// ScanStats summarizes one due-source scan.
type ScanStats struct {
	Due     int // sources due at scan time
	Started int // crawls submitted to the pipeline
	Skipped int // sources with a crawl already running
	Failed  int // sources that could not be started
}

// Scanner runs the periodic due-source scan. Crawls complete asynchronously
// in the pipeline; the scanner only starts them.
type Scanner struct {
	schedule DueLister
	crawls   CrawlStarter
	metrics  *WorkerMetrics
	logger   *slog.Logger
}

// NewScanner wires a Scanner from the schedule and crawl services.
func NewScanner(schedule DueLister, crawls CrawlStarter, metrics *WorkerMetrics, logger *slog.Logger) *Scanner {
	return &Scanner{schedule: schedule, crawls: crawls, metrics: metrics, logger: logger}
}

// Scan starts a crawl for every due source. A source whose crawl is already
// running is skipped, not an error; per-source start failures are logged and
// counted without aborting the rest of the scan.
func (s *Scanner) Scan(ctx context.Context) (ScanStats, error) {
	start := time.Now()

	sources, err := s.schedule.GetDueSources(ctx)
	if err != nil {
		s.metrics.RecordScanRun("failure")
		s.metrics.RecordScanDuration(time.Since(start).Seconds())
		return ScanStats{}, fmt.Errorf("list due sources: %w", err)
	}

	stats := ScanStats{Due: len(sources)}
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		log, _, err := s.crawls.StartCrawl(ctx, src.ID)
		switch {
		case err == nil:
			stats.Started++
			s.logger.Info("scheduled crawl started",
				slog.Int64("source_id", src.ID),
				slog.Int64("log_id", log.ID),
				slog.String("url", src.URL))
		case errors.Is(err, crawlUC.ErrCrawlInProgress):
			stats.Skipped++
			s.logger.Debug("crawl already running, skipping",
				slog.Int64("source_id", src.ID))
		case errors.Is(err, crawlUC.ErrSourceNotActive), errors.Is(err, crawlUC.ErrSourceNotFound):
			// The source changed between the due query and the start.
			stats.Skipped++
		default:
			stats.Failed++
			s.logger.Error("failed to start scheduled crawl",
				slog.Int64("source_id", src.ID),
				slog.Any("error", err))
		}
	}

	s.metrics.RecordScanDuration(time.Since(start).Seconds())
	s.metrics.RecordCrawlsStarted(stats.Started)
	if stats.Failed == 0 {
		s.metrics.RecordScanRun("success")
		s.metrics.RecordLastSuccess()
	} else {
		s.metrics.RecordScanRun("failure")
	}

	s.logger.Info("due-source scan completed",
		slog.Int("due", stats.Due),
		slog.Int("started", stats.Started),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Duration("duration", time.Since(start)))
	return stats, nil
}
