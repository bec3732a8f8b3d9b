package source_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"opportunity-scout/internal/domain/entity"
	srcHTTP "opportunity-scout/internal/handler/http/source"
	"opportunity-scout/internal/repository"
	schedUC "opportunity-scout/internal/usecase/schedule"
	srcUC "opportunity-scout/internal/usecase/source"
)

/* ──────────────────────────────── stubs ──────────────────────────────── */

type stubSourceRepo struct {
	sources map[int64]*entity.CrawlSource
	nextID  int64
	err     error
}

func newStubSourceRepo() *stubSourceRepo {
	return &stubSourceRepo{sources: map[int64]*entity.CrawlSource{}, nextID: 1}
}

func (r *stubSourceRepo) Get(_ context.Context, id int64) (*entity.CrawlSource, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sources[id], nil
}

func (r *stubSourceRepo) List(_ context.Context, _ repository.SourceFilter) ([]*entity.CrawlSource, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*entity.CrawlSource, 0, len(r.sources))
	for id := int64(1); id < r.nextID; id++ {
		if src, ok := r.sources[id]; ok {
			out = append(out, src)
		}
	}
	return out, nil
}

func (r *stubSourceRepo) ListActive(_ context.Context) ([]*entity.CrawlSource, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.CrawlSource
	for id := int64(1); id < r.nextID; id++ {
		if src, ok := r.sources[id]; ok && src.Status == entity.SourceActive {
			out = append(out, src)
		}
	}
	return out, nil
}

func (r *stubSourceRepo) ExistsByURL(_ context.Context, url string, excludeID int64) (bool, error) {
	for _, src := range r.sources {
		if src.URL == url && src.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubSourceRepo) Create(_ context.Context, src *entity.CrawlSource) error {
	src.ID = r.nextID
	r.nextID++
	r.sources[src.ID] = src
	return nil
}

func (r *stubSourceRepo) Update(_ context.Context, src *entity.CrawlSource) error {
	r.sources[src.ID] = src
	return nil
}

func (r *stubSourceRepo) Delete(_ context.Context, id int64) error {
	delete(r.sources, id)
	return nil
}

func (r *stubSourceRepo) TouchCrawledAt(_ context.Context, id int64, t time.Time) error {
	if src, ok := r.sources[id]; ok {
		src.LastCrawl = &t
	}
	return nil
}

func (r *stubSourceRepo) SetCrawlResult(_ context.Context, id int64, ok bool, msg *string) error {
	if src, found := r.sources[id]; found {
		src.LastSuccess = ok
		src.ErrorMessage = msg
	}
	return nil
}

func (r *stubSourceRepo) CountByStatus(_ context.Context) (map[entity.SourceStatus]int, error) {
	return nil, nil
}

type stubLogRepo struct {
	logs    map[int64][]*entity.CrawlLog
	running map[int64]bool
}

func newStubLogRepo() *stubLogRepo {
	return &stubLogRepo{logs: map[int64][]*entity.CrawlLog{}, running: map[int64]bool{}}
}

func (r *stubLogRepo) Get(_ context.Context, _ int64) (*entity.CrawlLog, error) { return nil, nil }
func (r *stubLogRepo) ListBySource(_ context.Context, sourceID int64, limit int) ([]*entity.CrawlLog, error) {
	logs := r.logs[sourceID]
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}
func (r *stubLogRepo) ListRecent(_ context.Context, _ int) ([]*entity.CrawlLog, error) {
	return nil, nil
}
func (r *stubLogRepo) HasRunning(_ context.Context, sourceID int64) (bool, error) {
	return r.running[sourceID], nil
}
func (r *stubLogRepo) Create(_ context.Context, _ *entity.CrawlLog) error { return nil }
func (r *stubLogRepo) MarkSuccess(_ context.Context, _ int64, _ int, _ time.Time) error {
	return nil
}
func (r *stubLogRepo) MarkFailed(_ context.Context, _ int64, _ string, _ time.Time) error {
	return nil
}
func (r *stubLogRepo) CountByStatus(_ context.Context) (map[entity.CrawlStatus]int, error) {
	return nil, nil
}

/* ──────────────────────────────── harness ──────────────────────────────── */

func newMux(t *testing.T) (*http.ServeMux, *stubSourceRepo, *stubLogRepo) {
	t.Helper()
	repo := newStubSourceRepo()
	logs := newStubLogRepo()
	svc := srcUC.NewService(repo, logs)
	sched := schedUC.NewService(repo)

	mux := http.NewServeMux()
	srcHTTP.Register(mux, svc, sched)
	return mux, repo, logs
}

func seedSource(repo *stubSourceRepo, status entity.SourceStatus) *entity.CrawlSource {
	src := &entity.CrawlSource{
		Name:       "Scholarship Hub",
		URL:        "https://scholarships.example.com",
		Status:     status,
		Frequency:  entity.FrequencyDaily,
		MaxResults: 50,
	}
	_ = repo.Create(context.Background(), src)
	return src
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)
	return w
}

/* ──────────────────────────────── tests ──────────────────────────────── */

func TestCreateSource(t *testing.T) {
	mux, _, _ := newMux(t)

	w := do(mux, http.MethodPost, "/sources",
		`{"name":"Scholarship Hub","url":"https://scholarships.example.com"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	// Defaults applied for omitted optional fields.
	if got["status"] != "active" || got["frequency"] != "daily" || got["max_results"] != float64(50) {
		t.Fatalf("unexpected defaults: %v", got)
	}
}

func TestCreateSource_MissingFields(t *testing.T) {
	mux, _, _ := newMux(t)

	w := do(mux, http.MethodPost, "/sources", `{"name":"only a name"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestCreateSource_DuplicateURL(t *testing.T) {
	mux, repo, _ := newMux(t)
	seedSource(repo, entity.SourceActive)

	w := do(mux, http.MethodPost, "/sources",
		`{"name":"Other","url":"https://scholarships.example.com"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
}

func TestListSources(t *testing.T) {
	mux, repo, _ := newMux(t)
	seedSource(repo, entity.SourceActive)

	w := do(mux, http.MethodGet, "/sources", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
}

func TestGetSource_WithRecentLogs(t *testing.T) {
	mux, repo, logs := newMux(t)
	src := seedSource(repo, entity.SourceActive)
	logs.logs[src.ID] = []*entity.CrawlLog{
		{ID: 1, SourceID: src.ID, Status: entity.CrawlSuccess, ItemsFound: 3, StartedAt: time.Now()},
	}

	w := do(mux, http.MethodGet, "/sources/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		ID         int64            `json:"id"`
		RecentLogs []map[string]any `json:"recent_logs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 || len(got.RecentLogs) != 1 {
		t.Fatalf("got=%+v", got)
	}
}

func TestGetSource_NotFound(t *testing.T) {
	mux, _, _ := newMux(t)

	w := do(mux, http.MethodGet, "/sources/99", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestGetSource_InvalidID(t *testing.T) {
	mux, _, _ := newMux(t)

	w := do(mux, http.MethodGet, "/sources/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", w.Code)
	}
}

func TestUpdateSource(t *testing.T) {
	mux, repo, _ := newMux(t)
	seedSource(repo, entity.SourceActive)

	w := do(mux, http.MethodPut, "/sources/1", `{"frequency":"weekly"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["frequency"] != "weekly" {
		t.Fatalf("frequency=%v, want weekly", got["frequency"])
	}
	// Untouched fields keep their values.
	if got["name"] != "Scholarship Hub" {
		t.Fatalf("name=%v", got["name"])
	}
}

func TestUpdateSource_NotFound(t *testing.T) {
	mux, _, _ := newMux(t)

	w := do(mux, http.MethodPut, "/sources/42", `{"name":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
}

func TestDeleteSource(t *testing.T) {
	mux, repo, _ := newMux(t)
	seedSource(repo, entity.SourceActive)

	w := do(mux, http.MethodDelete, "/sources/1", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestDeleteSource_CrawlRunning(t *testing.T) {
	mux, repo, logs := newMux(t)
	src := seedSource(repo, entity.SourceActive)
	logs.running[src.ID] = true

	w := do(mux, http.MethodDelete, "/sources/1", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", w.Code)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/sources/1/pause", "paused"},
		{"/sources/1/resume", "active"},
		{"/sources/1/disable", "disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			mux, repo, _ := newMux(t)
			seedSource(repo, entity.SourceActive)

			w := do(mux, http.MethodPost, tt.path, "")
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			var got map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got["status"] != tt.want {
				t.Fatalf("status=%v, want %s", got["status"], tt.want)
			}
		})
	}
}

func TestActiveAndDueSources(t *testing.T) {
	mux, repo, _ := newMux(t)
	seedSource(repo, entity.SourceActive)
	seedSource(repo, entity.SourcePaused)

	w := do(mux, http.MethodGet, "/sources/active", "")
	if w.Code != http.StatusOK {
		t.Fatalf("active status=%d", w.Code)
	}
	var active []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &active); err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("active len=%d, want 1", len(active))
	}

	// Never-crawled active sources are always due.
	w = do(mux, http.MethodGet, "/sources/due", "")
	if w.Code != http.StatusOK {
		t.Fatalf("due status=%d", w.Code)
	}
	var due []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &due); err != nil {
		t.Fatal(err)
	}
	if len(due) != 1 {
		t.Fatalf("due len=%d, want 1", len(due))
	}
}
