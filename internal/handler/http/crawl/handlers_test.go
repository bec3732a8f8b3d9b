package crawl_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"opportunity-scout/internal/domain/entity"
	crawlHTTP "opportunity-scout/internal/handler/http/crawl"
	"opportunity-scout/internal/repository"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

// crawlStore backs all four repositories behind one mutex; pipeline stages
// touch it from their own goroutines.
type crawlStore struct {
	mu      sync.Mutex
	sources map[int64]*entity.CrawlSource
	logs    map[int64]*entity.CrawlLog
	nextLog int64
	drafts  []*entity.AIDraft
}

func newCrawlStore() *crawlStore {
	return &crawlStore{
		sources: map[int64]*entity.CrawlSource{},
		logs:    map[int64]*entity.CrawlLog{},
		nextLog: 1,
	}
}

func (s *crawlStore) Get(_ context.Context, id int64) (*entity.CrawlSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources[id], nil
}

func (s *crawlStore) List(_ context.Context, _ repository.SourceFilter) ([]*entity.CrawlSource, error) {
	return nil, nil
}
func (s *crawlStore) ListActive(_ context.Context) ([]*entity.CrawlSource, error) { return nil, nil }
func (s *crawlStore) ExistsByURL(_ context.Context, _ string, _ int64) (bool, error) {
	return false, nil
}
func (s *crawlStore) Create(_ context.Context, _ *entity.CrawlSource) error { return nil }
func (s *crawlStore) Update(_ context.Context, _ *entity.CrawlSource) error { return nil }
func (s *crawlStore) Delete(_ context.Context, _ int64) error               { return nil }

func (s *crawlStore) TouchCrawledAt(_ context.Context, id int64, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src, ok := s.sources[id]; ok {
		src.LastCrawl = &t
	}
	return nil
}

func (s *crawlStore) SetCrawlResult(_ context.Context, id int64, ok bool, msg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src, found := s.sources[id]; found {
		src.LastSuccess = ok
		src.ErrorMessage = msg
	}
	return nil
}

func (s *crawlStore) CountByStatus(_ context.Context) (map[entity.SourceStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[entity.SourceStatus]int{}
	for _, src := range s.sources {
		out[src.Status]++
	}
	return out, nil
}

type crawlLogStore struct{ *crawlStore }

func (s crawlLogStore) Get(_ context.Context, id int64) (*entity.CrawlLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logs[id], nil
}

func (s crawlLogStore) ListBySource(_ context.Context, sourceID int64, limit int) ([]*entity.CrawlLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.CrawlLog
	for id := s.nextLog - 1; id >= 1 && len(out) < limit; id-- {
		if log, ok := s.logs[id]; ok && log.SourceID == sourceID {
			out = append(out, log)
		}
	}
	return out, nil
}

func (s crawlLogStore) ListRecent(_ context.Context, limit int) ([]*entity.CrawlLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.CrawlLog
	for id := s.nextLog - 1; id >= 1 && len(out) < limit; id-- {
		if log, ok := s.logs[id]; ok {
			out = append(out, log)
		}
	}
	return out, nil
}

func (s crawlLogStore) HasRunning(_ context.Context, sourceID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, log := range s.logs {
		if log.SourceID == sourceID && log.Status == entity.CrawlRunning {
			return true, nil
		}
	}
	return false, nil
}

func (s crawlLogStore) Create(_ context.Context, log *entity.CrawlLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.ID = s.nextLog
	s.nextLog++
	s.logs[log.ID] = log
	return nil
}

func (s crawlLogStore) MarkSuccess(_ context.Context, id int64, items int, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := s.logs[id]; ok {
		log.Status = entity.CrawlSuccess
		log.ItemsFound = items
		log.CompletedAt = &completedAt
	}
	return nil
}

func (s crawlLogStore) MarkFailed(_ context.Context, id int64, msg string, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok := s.logs[id]; ok {
		log.Status = entity.CrawlFailed
		log.ErrorMessage = &msg
		log.CompletedAt = &completedAt
	}
	return nil
}

func (s crawlLogStore) CountByStatus(_ context.Context) (map[entity.CrawlStatus]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[entity.CrawlStatus]int{}
	for _, log := range s.logs {
		out[log.Status]++
	}
	return out, nil
}

type crawlOppStore struct{ *crawlStore }

func (s crawlOppStore) Create(_ context.Context, o *entity.Opportunity) error {
	o.ID = 1
	return nil
}

func (s crawlOppStore) FindKeysByTitles(_ context.Context, _ []string) ([]repository.OpportunityKey, error) {
	return nil, nil
}

type crawlDraftStore struct{ *crawlStore }

func (s crawlDraftStore) Create(_ context.Context, d *entity.AIDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = int64(len(s.drafts) + 1)
	s.drafts = append(s.drafts, d)
	return nil
}

func (s crawlDraftStore) Get(_ context.Context, _ int64) (*entity.AIDraft, error) {
	return nil, nil
}

func (s crawlDraftStore) ListPending(_ context.Context, _ int) ([]*entity.AIDraft, error) {
	return nil, nil
}

type stubFetcher struct{ content string }

func (f stubFetcher) FetchPageContent(_ context.Context, _ string) (string, error) {
	return f.content, nil
}

type stubExtractor struct{ candidates []entity.ParsedOpportunity }

func (e stubExtractor) ParseContentToOpportunities(_ context.Context, _ string, _ int) ([]entity.ParsedOpportunity, error) {
	return e.candidates, nil
}

/* ──────────────────────────────── harness ──────────────────────────────── */

func newMux(t *testing.T) (*http.ServeMux, *crawlStore) {
	t.Helper()
	store := newCrawlStore()
	pipeline := crawlUC.NewPipeline(
		stubFetcher{content: "<p>listing</p>"}, stubExtractor{},
		store, crawlLogStore{store}, crawlOppStore{store}, crawlDraftStore{store},
		crawlUC.PipelineConfig{QueueSize: 4, FetchWorkers: 1, ExtractWorkers: 1, PersistWorkers: 1, PersistParallelism: 1},
	)
	pipeline.Start(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = pipeline.Stop(ctx)
	})

	svc := crawlUC.NewService(store, crawlLogStore{store}, pipeline)
	mux := http.NewServeMux()
	crawlHTTP.Register(mux, svc)
	return mux, store
}

func seedSource(store *crawlStore, status entity.SourceStatus) *entity.CrawlSource {
	store.mu.Lock()
	defer store.mu.Unlock()
	src := &entity.CrawlSource{
		ID: int64(len(store.sources) + 1), Name: "Scholarship Hub",
		URL: "https://scholarships.example.com", Status: status,
		Frequency: entity.FrequencyDaily, MaxResults: 50, LastSuccess: true,
	}
	store.sources[src.ID] = src
	return src
}

func seedLog(store *crawlStore, sourceID int64, status entity.CrawlStatus, items int) *entity.CrawlLog {
	store.mu.Lock()
	defer store.mu.Unlock()
	log := &entity.CrawlLog{
		ID: store.nextLog, SourceID: sourceID, Status: status,
		ItemsFound: items, StartedAt: time.Now(),
	}
	store.nextLog++
	store.logs[log.ID] = log
	return log
}

func do(mux *http.ServeMux, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

/* ──────────────────────────────── tests ──────────────────────────────── */

func TestStartCrawl_Accepted(t *testing.T) {
	mux, store := newMux(t)
	seedSource(store, entity.SourceActive)

	w := do(mux, http.MethodPost, "/sources/1/crawl")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "running" || got["source_id"] != float64(1) {
		t.Fatalf("unexpected log: %v", got)
	}
}

func TestStartCrawl_NotFound(t *testing.T) {
	mux, _ := newMux(t)

	w := do(mux, http.MethodPost, "/sources/99/crawl")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestStartCrawl_PausedSourceConflicts(t *testing.T) {
	mux, store := newMux(t)
	seedSource(store, entity.SourcePaused)

	w := do(mux, http.MethodPost, "/sources/1/crawl")
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
}

func TestStartCrawl_AlreadyRunningConflicts(t *testing.T) {
	mux, store := newMux(t)
	src := seedSource(store, entity.SourceActive)
	seedLog(store, src.ID, entity.CrawlRunning, 0)

	w := do(mux, http.MethodPost, "/sources/1/crawl")
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
}

func TestStartCrawl_InvalidID(t *testing.T) {
	mux, _ := newMux(t)

	w := do(mux, http.MethodPost, "/sources/abc/crawl")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestSourceLogs(t *testing.T) {
	mux, store := newMux(t)
	src := seedSource(store, entity.SourceActive)
	seedLog(store, src.ID, entity.CrawlSuccess, 3)
	seedLog(store, src.ID, entity.CrawlFailed, 0)

	w := do(mux, http.MethodGet, "/sources/1/logs")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	// Newest first.
	if got[0]["status"] != "failed" || got[1]["status"] != "success" {
		t.Fatalf("order: %v", got)
	}
}

func TestSourceLogs_LimitParam(t *testing.T) {
	mux, store := newMux(t)
	src := seedSource(store, entity.SourceActive)
	for i := 0; i < 3; i++ {
		seedLog(store, src.ID, entity.CrawlSuccess, i)
	}

	w := do(mux, http.MethodGet, "/sources/1/logs?limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
}

func TestSourceLogs_NotFound(t *testing.T) {
	mux, _ := newMux(t)

	w := do(mux, http.MethodGet, "/sources/7/logs")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestRecentLogs(t *testing.T) {
	mux, store := newMux(t)
	a := seedSource(store, entity.SourceActive)
	b := seedSource(store, entity.SourceActive)
	seedLog(store, a.ID, entity.CrawlSuccess, 1)
	seedLog(store, b.ID, entity.CrawlSuccess, 2)

	w := do(mux, http.MethodGet, "/crawl/logs")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
}

func TestSourceHealth(t *testing.T) {
	mux, store := newMux(t)
	src := seedSource(store, entity.SourceActive)
	seedLog(store, src.ID, entity.CrawlSuccess, 4)
	seedLog(store, src.ID, entity.CrawlFailed, 0)

	w := do(mux, http.MethodGet, "/sources/1/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["source_id"] != float64(src.ID) {
		t.Fatalf("source_id=%v", got["source_id"])
	}
	if got["status"] != "warning" || got["consecutive_failures"] != float64(1) {
		t.Fatalf("health: %v", got)
	}
	if got["average_items_found"] != float64(4) {
		t.Fatalf("average_items_found=%v", got["average_items_found"])
	}
}

func TestSourceHealth_NotFound(t *testing.T) {
	mux, _ := newMux(t)

	w := do(mux, http.MethodGet, "/sources/3/health")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestCrawlStats(t *testing.T) {
	mux, store := newMux(t)
	src := seedSource(store, entity.SourceActive)
	seedLog(store, src.ID, entity.CrawlSuccess, 2)
	seedLog(store, src.ID, entity.CrawlSuccess, 1)
	seedLog(store, src.ID, entity.CrawlFailed, 0)

	w := do(mux, http.MethodGet, "/crawl/stats")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		SourcesByStatus map[string]int `json:"sources_by_status"`
		LogsByStatus    map[string]int `json:"logs_by_status"`
		TotalLogs       int            `json:"total_logs"`
		SuccessRate     float64        `json:"success_rate"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.SourcesByStatus["active"] != 1 || got.TotalLogs != 3 {
		t.Fatalf("stats: %+v", got)
	}
	if got.SuccessRate != 66.67 {
		t.Fatalf("success_rate=%v, want 66.67", got.SuccessRate)
	}
}
