package crawl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/observability/metrics"
	"opportunity-scout/internal/repository"

	"golang.org/x/sync/errgroup"
)

// ErrPipelineStopped is returned by Submit after Stop has been called.
var ErrPipelineStopped = errors.New("crawl pipeline stopped")

// PipelineConfig controls stage queue sizes and worker counts.
type PipelineConfig struct {
	QueueSize          int // capacity of each stage channel
	FetchWorkers       int // concurrent page fetches
	ExtractWorkers     int // concurrent AI extraction calls
	PersistWorkers     int // concurrent dedup/persist stages
	PersistParallelism int // per-crawl draft persistence fan-out
}

// DefaultPipelineConfig returns the standard pipeline sizing.
// Extraction is the expensive stage, so it gets the fewest workers.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		QueueSize:          16,
		FetchWorkers:       4,
		ExtractWorkers:     2,
		PersistWorkers:     2,
		PersistParallelism: 5,
	}
}

// Validate clamps nonsensical values back to the defaults.
func (c *PipelineConfig) Validate() {
	def := DefaultPipelineConfig()
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.FetchWorkers <= 0 {
		c.FetchWorkers = def.FetchWorkers
	}
	if c.ExtractWorkers <= 0 {
		c.ExtractWorkers = def.ExtractWorkers
	}
	if c.PersistWorkers <= 0 {
		c.PersistWorkers = def.PersistWorkers
	}
	if c.PersistParallelism <= 0 {
		c.PersistParallelism = def.PersistParallelism
	}
}

// Pipeline runs the asynchronous fetch → extract → dedup/persist chain.
// Each stage reads typed events from a bounded channel, so backpressure is
// explicit: a slow extraction stage eventually blocks fetches, which
// eventually blocks Submit.
//
// Within one crawl, stages run strictly in order; crawls for different
// sources interleave freely across the stage workers. The crawl log and the
// source's lastSuccess flag are the only shared mutable state, and each is
// written exactly once per crawl, at the terminal transition.
type Pipeline struct {
	fetcher       PageFetcher
	extractor     Extractor
	dedup         Deduplicator
	sources       repository.SourceRepository
	logs          repository.CrawlLogRepository
	opportunities repository.OpportunityRepository
	drafts        repository.DraftRepository
	cfg           PipelineConfig
	logger        *slog.Logger

	requests      chan CrawlRequest
	crawled       chan ContentCrawled
	parsed        chan ContentParsed
	notifications chan Notification

	mu         sync.Mutex
	closed     bool
	submitters sync.WaitGroup
	handles    map[int64]*Handle
	started    map[int64]time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// NewPipeline wires a Pipeline from its collaborators. Call Start before
// Submit and Stop during shutdown.
func NewPipeline(
	fetcher PageFetcher,
	extractor Extractor,
	sources repository.SourceRepository,
	logs repository.CrawlLogRepository,
	opportunities repository.OpportunityRepository,
	drafts repository.DraftRepository,
	cfg PipelineConfig,
) *Pipeline {
	cfg.Validate()
	return &Pipeline{
		fetcher:       fetcher,
		extractor:     extractor,
		dedup:         NewDeduplicator(opportunities),
		sources:       sources,
		logs:          logs,
		opportunities: opportunities,
		drafts:        drafts,
		cfg:           cfg,
		logger:        slog.Default(),
		requests:      make(chan CrawlRequest, cfg.QueueSize),
		crawled:       make(chan ContentCrawled, cfg.QueueSize),
		parsed:        make(chan ContentParsed, cfg.QueueSize),
		notifications: make(chan Notification, cfg.QueueSize),
		handles:       make(map[int64]*Handle),
		started:       make(map[int64]time.Time),
		done:          make(chan struct{}),
	}
}

// Start launches the stage workers. The context bounds in-flight I/O once
// Stop cancels it; queued work is otherwise drained to completion.
func (p *Pipeline) Start(ctx context.Context) {
	p.once.Do(func() {
		p.baseCtx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

		var fetchWG, extractWG, persistWG sync.WaitGroup

		fetchWG.Add(p.cfg.FetchWorkers)
		for i := 0; i < p.cfg.FetchWorkers; i++ {
			go func() {
				defer fetchWG.Done()
				p.fetchLoop()
			}()
		}
		extractWG.Add(p.cfg.ExtractWorkers)
		for i := 0; i < p.cfg.ExtractWorkers; i++ {
			go func() {
				defer extractWG.Done()
				p.extractLoop()
			}()
		}
		persistWG.Add(p.cfg.PersistWorkers)
		for i := 0; i < p.cfg.PersistWorkers; i++ {
			go func() {
				defer persistWG.Done()
				p.persistLoop()
			}()
		}

		// Cascade channel closes downstream as each stage drains.
		go func() {
			fetchWG.Wait()
			close(p.crawled)
		}()
		go func() {
			extractWG.Wait()
			close(p.parsed)
		}()
		go func() {
			persistWG.Wait()
			close(p.notifications)
		}()
		go func() {
			p.notifyLoop()
			close(p.done)
		}()
	})
}

// Stop closes the intake, drains queued crawls, and waits for the pipeline
// to finish or ctx to expire. On ctx expiry, in-flight I/O is cancelled.
func (p *Pipeline) Stop(ctx context.Context) error {
	p.mu.Lock()
	already := p.closed
	p.closed = true
	p.mu.Unlock()

	if !already {
		// No new submitters can start once closed; wait out in-flight sends
		// before closing the intake channel.
		p.submitters.Wait()
		close(p.requests)
	}

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		if p.cancel != nil {
			p.cancel()
		}
		<-p.done
		return ctx.Err()
	}
}

// Running reports whether the pipeline still accepts submissions.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed
}

// Submit enqueues a crawl request and returns its awaitable handle.
// Blocks while the fetch queue is full; fails with ErrPipelineStopped after
// Stop and with ctx.Err() if the caller gives up waiting for queue space.
func (p *Pipeline) Submit(ctx context.Context, req CrawlRequest) (*Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPipelineStopped
	}
	h := newHandle(req.LogID)
	p.handles[req.LogID] = h
	p.started[req.LogID] = time.Now()
	p.submitters.Add(1)
	p.mu.Unlock()
	defer p.submitters.Done()

	select {
	case p.requests <- req:
		return h, nil
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.handles, req.LogID)
		delete(p.started, req.LogID)
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

/* ---------- stages ---------- */

func (p *Pipeline) fetchLoop() {
	for req := range p.requests {
		start := time.Now()
		content, err := p.fetcher.FetchPageContent(p.baseCtx, req.Source.URL)
		metrics.RecordCrawlStage("fetch", time.Since(start))

		if err != nil {
			p.logger.Warn("page fetch failed",
				slog.Int64("log_id", req.LogID),
				slog.Int64("source_id", req.Source.ID),
				slog.String("url", req.Source.URL),
				slog.Any("error", err))
			p.failCrawl(req.LogID, req.Source.ID, err.Error())
			continue
		}

		p.crawled <- ContentCrawled{
			LogID:      req.LogID,
			SourceID:   req.Source.ID,
			SourceURL:  req.Source.URL,
			MaxResults: req.Source.MaxResults,
			Content:    content,
		}
	}
}

func (p *Pipeline) extractLoop() {
	for ev := range p.crawled {
		if strings.TrimSpace(ev.Content) == "" {
			p.failCrawl(ev.LogID, ev.SourceID, "No content provided for AI parsing")
			continue
		}

		start := time.Now()
		candidates, err := p.extractor.ParseContentToOpportunities(p.baseCtx, ev.Content, ev.MaxResults)
		metrics.RecordCrawlStage("extract", time.Since(start))

		if err != nil {
			// Extraction failures surface as zero items found, not as a
			// failed crawl.
			p.logger.Warn("extraction failed, treating as zero candidates",
				slog.Int64("log_id", ev.LogID),
				slog.Int64("source_id", ev.SourceID),
				slog.Any("error", err))
			candidates = nil
		}
		metrics.RecordOpportunitiesExtracted(ev.SourceID, len(candidates))

		if len(candidates) == 0 {
			p.succeedCrawl(ev.LogID, ev.SourceID, 0)
			continue
		}
		if len(candidates) > ev.MaxResults && ev.MaxResults > 0 {
			candidates = candidates[:ev.MaxResults]
		}

		p.parsed <- ContentParsed{
			LogID:         ev.LogID,
			SourceID:      ev.SourceID,
			SourceURL:     ev.SourceURL,
			Content:       ev.Content,
			Opportunities: candidates,
		}
	}
}

func (p *Pipeline) persistLoop() {
	for ev := range p.parsed {
		start := time.Now()

		survivors, err := p.dedup.FilterDuplicates(p.baseCtx, ev.Opportunities)
		if err != nil {
			p.failCrawl(ev.LogID, ev.SourceID, err.Error())
			continue
		}
		metrics.RecordDedup(len(ev.Opportunities), len(survivors))

		p.stageCandidates(ev, survivors)
		metrics.RecordCrawlStage("persist", time.Since(start))

		p.succeedCrawl(ev.LogID, ev.SourceID, len(survivors))
	}
}

// stageCandidates creates the opportunity stub and AI draft for each
// survivor. Per-candidate failures are logged and skipped so one bad record
// cannot fail an otherwise successful crawl.
func (p *Pipeline) stageCandidates(ev ContentParsed, survivors []entity.ParsedOpportunity) {
	eg, ctx := errgroup.WithContext(p.baseCtx)
	eg.SetLimit(p.cfg.PersistParallelism)

	for _, candidate := range survivors {
		c := candidate
		eg.Go(func() error {
			if err := p.stageCandidate(ctx, ev, c); err != nil {
				metrics.RecordDraftPersistError()
				p.logger.Warn("failed to stage candidate",
					slog.Int64("log_id", ev.LogID),
					slog.Int64("source_id", ev.SourceID),
					slog.String("title", c.Title),
					slog.Any("error", err))
			}
			return nil
		})
	}
	_ = eg.Wait()
}

func (p *Pipeline) stageCandidate(ctx context.Context, ev ContentParsed, c entity.ParsedOpportunity) error {
	now := time.Now()

	stub := entity.NewOpportunityStub(c, now)
	if err := p.opportunities.Create(ctx, stub); err != nil {
		return fmt.Errorf("create opportunity stub: %w", err)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}

	draft := &entity.AIDraft{
		Title:         c.Title,
		Source:        ev.SourceURL,
		Status:        entity.DraftPending,
		Priority:      DeterminePriority(c, now),
		RawContent:    ev.Content,
		Parsed:        c,
		RawParsedJSON: raw,
		OpportunityID: stub.ID,
		CreatedAt:     now,
	}
	if err := p.drafts.Create(ctx, draft); err != nil {
		return fmt.Errorf("create draft: %w", err)
	}
	return nil
}

/* ---------- terminal transitions ---------- */

func (p *Pipeline) succeedCrawl(logID, sourceID int64, itemsFound int) {
	now := time.Now()
	if err := p.logs.MarkSuccess(p.baseCtx, logID, itemsFound, now); err != nil {
		p.logger.Error("failed to mark crawl log success",
			slog.Int64("log_id", logID), slog.Any("error", err))
	}
	if err := p.sources.SetCrawlResult(p.baseCtx, sourceID, true, nil); err != nil {
		p.logger.Error("failed to record source crawl result",
			slog.Int64("source_id", sourceID), slog.Any("error", err))
	}

	p.notifications <- OpportunitiesExtracted{LogID: logID, SourceID: sourceID, ItemsFound: itemsFound}
	p.finish(Outcome{
		LogID:      logID,
		SourceID:   sourceID,
		Status:     entity.CrawlSuccess,
		ItemsFound: itemsFound,
	})
}

func (p *Pipeline) failCrawl(logID, sourceID int64, message string) {
	now := time.Now()
	if err := p.logs.MarkFailed(p.baseCtx, logID, message, now); err != nil {
		p.logger.Error("failed to mark crawl log failed",
			slog.Int64("log_id", logID), slog.Any("error", err))
	}
	if err := p.sources.SetCrawlResult(p.baseCtx, sourceID, false, &message); err != nil {
		p.logger.Error("failed to record source crawl result",
			slog.Int64("source_id", sourceID), slog.Any("error", err))
	}

	p.notifications <- ParsingFailed{LogID: logID, SourceID: sourceID, Message: message}
	p.finish(Outcome{
		LogID:    logID,
		SourceID: sourceID,
		Status:   entity.CrawlFailed,
		Message:  message,
	})
}

func (p *Pipeline) finish(o Outcome) {
	p.mu.Lock()
	h := p.handles[o.LogID]
	startedAt, tracked := p.started[o.LogID]
	delete(p.handles, o.LogID)
	delete(p.started, o.LogID)
	p.mu.Unlock()

	if tracked {
		metrics.RecordCrawlCompleted(o.SourceID, string(o.Status), time.Since(startedAt))
	}
	if h != nil {
		h.complete(o)
	}
}

// notifyLoop consumes terminal notifications. They carry no pipeline
// obligation beyond structured logging.
func (p *Pipeline) notifyLoop() {
	for n := range p.notifications {
		switch ev := n.(type) {
		case OpportunitiesExtracted:
			p.logger.Info("crawl completed",
				slog.Int64("log_id", ev.LogID),
				slog.Int64("source_id", ev.SourceID),
				slog.Int("items_found", ev.ItemsFound))
		case ParsingFailed:
			p.logger.Warn("crawl failed",
				slog.Int64("log_id", ev.LogID),
				slog.Int64("source_id", ev.SourceID),
				slog.String("error", ev.Message))
		}
	}
}
