package source

import (
	"context"
	"fmt"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/repository"
)

// DefaultMaxResults is applied when createSource omits maxResults.
const DefaultMaxResults = 50

// defaultRecentLogs is how many logs GetWithLogs attaches by default.
const defaultRecentLogs = 5

// CreateInput represents the input parameters for creating a new source.
// Status, Frequency and MaxResults are optional; zero values fall back to
// active / daily / DefaultMaxResults.
type CreateInput struct {
	Name       string
	URL        string
	Status     entity.SourceStatus
	Frequency  entity.Frequency
	MaxResults int
}

// UpdateInput represents the input parameters for updating an existing source.
// Zero-valued fields are left unchanged.
type UpdateInput struct {
	ID         int64
	Name       string
	URL        string
	Status     entity.SourceStatus
	Frequency  entity.Frequency
	MaxResults int
}

// SourceWithLogs bundles a source with its most recent crawl logs.
type SourceWithLogs struct {
	Source     *entity.CrawlSource
	RecentLogs []*entity.CrawlLog
}

// Service provides source registry use cases. It owns validation and the
// URL-uniqueness and delete-while-crawling rules; persistence is delegated
// to the injected repositories.
type Service struct {
	Sources repository.SourceRepository
	Logs    repository.CrawlLogRepository
}

// NewService creates a source Service with the given repositories.
func NewService(sources repository.SourceRepository, logs repository.CrawlLogRepository) Service {
	return Service{Sources: sources, Logs: logs}
}

// List retrieves sources matching the optional filter.
func (s *Service) List(ctx context.Context, filter repository.SourceFilter) ([]*entity.CrawlSource, error) {
	sources, err := s.Sources.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// GetWithLogs retrieves a source and its most recent crawl logs.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) GetWithLogs(ctx context.Context, id int64, logLimit int) (*SourceWithLogs, error) {
	if logLimit <= 0 {
		logLimit = defaultRecentLogs
	}
	src, err := s.Sources.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	logs, err := s.Logs.ListBySource(ctx, id, logLimit)
	if err != nil {
		return nil, fmt.Errorf("list source logs: %w", err)
	}
	return &SourceWithLogs{Source: src, RecentLogs: logs}, nil
}

// Create registers a new crawl source. It applies defaults for omitted
// optional fields, validates the result, and enforces URL uniqueness.
// Returns a ValidationError or ErrDuplicateSourceURL on rejection; no state
// changes on any error path.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.CrawlSource, error) {
	now := time.Now()
	src := &entity.CrawlSource{
		Name:       in.Name,
		URL:        in.URL,
		Status:     in.Status,
		Frequency:  in.Frequency,
		MaxResults: in.MaxResults,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if src.Status == "" {
		src.Status = entity.SourceActive
	}
	if src.Frequency == "" {
		src.Frequency = entity.FrequencyDaily
	}
	if src.MaxResults == 0 {
		src.MaxResults = DefaultMaxResults
	}

	if err := src.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.Sources.ExistsByURL(ctx, src.URL, 0)
	if err != nil {
		return nil, fmt.Errorf("check url uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSourceURL
	}

	if err := s.Sources.Create(ctx, src); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return src, nil
}

// Update patches an existing source. Zero-valued input fields are left
// unchanged; the URL uniqueness check excludes the record itself.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.CrawlSource, error) {
	if in.ID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	src, err := s.Sources.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}

	if in.Name != "" {
		src.Name = in.Name
	}
	if in.URL != "" {
		src.URL = in.URL
	}
	if in.Status != "" {
		src.Status = in.Status
	}
	if in.Frequency != "" {
		src.Frequency = in.Frequency
	}
	if in.MaxResults != 0 {
		src.MaxResults = in.MaxResults
	}
	src.UpdatedAt = time.Now()

	if err := src.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.Sources.ExistsByURL(ctx, src.URL, src.ID)
	if err != nil {
		return nil, fmt.Errorf("check url uniqueness: %w", err)
	}
	if exists {
		return nil, ErrDuplicateSourceURL
	}

	if err := s.Sources.Update(ctx, src); err != nil {
		return nil, fmt.Errorf("update source: %w", err)
	}
	return src, nil
}

// Pause transitions a source to paused.
func (s *Service) Pause(ctx context.Context, id int64) (*entity.CrawlSource, error) {
	return s.setStatus(ctx, id, entity.SourcePaused)
}

// Resume transitions a source back to active.
func (s *Service) Resume(ctx context.Context, id int64) (*entity.CrawlSource, error) {
	return s.setStatus(ctx, id, entity.SourceActive)
}

// Disable transitions a source to disabled.
func (s *Service) Disable(ctx context.Context, id int64) (*entity.CrawlSource, error) {
	return s.setStatus(ctx, id, entity.SourceDisabled)
}

func (s *Service) setStatus(ctx context.Context, id int64, status entity.SourceStatus) (*entity.CrawlSource, error) {
	return s.Update(ctx, UpdateInput{ID: id, Status: status})
}

// Delete removes a source by its ID. Deletion is rejected with
// ErrCrawlRunning while a crawl log for the source is still running.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	src, err := s.Sources.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return ErrSourceNotFound
	}

	running, err := s.Logs.HasRunning(ctx, id)
	if err != nil {
		return fmt.Errorf("check running crawl: %w", err)
	}
	if running {
		return ErrCrawlRunning
	}

	if err := s.Sources.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}
