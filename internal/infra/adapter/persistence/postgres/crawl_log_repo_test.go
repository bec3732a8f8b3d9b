package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/infra/adapter/persistence/postgres"
)

var crawlLogCols = []string{
	"id", "source_id", "status", "items_found", "error_message", "started_at", "completed_at",
}

func crawlLogRow(log *entity.CrawlLog) *sqlmock.Rows {
	return sqlmock.NewRows(crawlLogCols).AddRow(
		log.ID, log.SourceID, log.Status, log.ItemsFound,
		log.ErrorMessage, log.StartedAt, log.CompletedAt,
	)
}

/* ──────────────────────────────── 1. Get ──────────────────────────────── */

func TestCrawlLogRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	started := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	completed := started.Add(30 * time.Second)
	want := &entity.CrawlLog{
		ID: 5, SourceID: 1, Status: entity.CrawlSuccess, ItemsFound: 12,
		StartedAt: started, CompletedAt: &completed,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(5)).
		WillReturnRows(crawlLogRow(want))

	repo := postgres.NewCrawlLogRepo(db)
	got, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCrawlLogRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(crawlLogCols))

	repo := postgres.NewCrawlLogRepo(db)
	got, err := repo.Get(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("Get missing row = (%+v, %v), want (nil, nil)", got, err)
	}
}

/* ──────────────────────────────── 2. listings ──────────────────────────────── */

func TestCrawlLogRepo_ListBySource(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`WHERE source_id`).
		WithArgs(int64(1), 5).
		WillReturnRows(crawlLogRow(&entity.CrawlLog{
			ID: 9, SourceID: 1, Status: entity.CrawlFailed,
			StartedAt: time.Now(),
		}))

	repo := postgres.NewCrawlLogRepo(db)
	got, err := repo.ListBySource(context.Background(), 1, 5)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListBySource err=%v len=%d", err, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCrawlLogRepo_ListRecent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`ORDER BY started_at DESC`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(crawlLogCols)) // empty set OK

	repo := postgres.NewCrawlLogRepo(db)
	if _, err := repo.ListRecent(context.Background(), 20); err != nil {
		t.Fatalf("ListRecent err=%v", err)
	}
}

/* ──────────────────────────────── 3. HasRunning ──────────────────────────────── */

func TestCrawlLogRepo_HasRunning(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`status = 'running'`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewCrawlLogRepo(db)
	running, err := repo.HasRunning(context.Background(), 1)
	if err != nil {
		t.Fatalf("HasRunning err=%v", err)
	}
	if !running {
		t.Fatal("HasRunning = false, want true")
	}
}

/* ──────────────────────────────── 4. Create ──────────────────────────────── */

func TestCrawlLogRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	started := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO crawl_logs`)).
		WithArgs(int64(1), entity.CrawlRunning, 0, nil, started, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	repo := postgres.NewCrawlLogRepo(db)
	log := &entity.CrawlLog{SourceID: 1, Status: entity.CrawlRunning, StartedAt: started}
	if err := repo.Create(context.Background(), log); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if log.ID != 11 {
		t.Fatalf("Create did not fill ID, got %d", log.ID)
	}
}

/* ──────────────────────────────── 5. terminal transitions ──────────────────────────────── */

func TestCrawlLogRepo_MarkSuccess(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	done := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`status = 'running'`)).
		WithArgs(7, done, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewCrawlLogRepo(db)
	if err := repo.MarkSuccess(context.Background(), 3, 7, done); err != nil {
		t.Fatalf("MarkSuccess err=%v", err)
	}
}

func TestCrawlLogRepo_MarkSuccess_AlreadyTerminal(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// A terminal log matches no rows under the running guard.
	mock.ExpectExec(regexp.QuoteMeta(`status = 'running'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := postgres.NewCrawlLogRepo(db)
	if err := repo.MarkSuccess(context.Background(), 3, 7, time.Now()); err == nil {
		t.Fatal("MarkSuccess on terminal log should return error")
	}
}

func TestCrawlLogRepo_MarkFailed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	done := time.Now()
	mock.ExpectExec(regexp.QuoteMeta(`'failed'`)).
		WithArgs("page fetch timed out", done, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewCrawlLogRepo(db)
	if err := repo.MarkFailed(context.Background(), 3, "page fetch timed out", done); err != nil {
		t.Fatalf("MarkFailed err=%v", err)
	}
}

/* ──────────────────────────────── 6. CountByStatus ──────────────────────────────── */

func TestCrawlLogRepo_CountByStatus(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`GROUP BY status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("success", 10).
			AddRow("failed", 2))

	repo := postgres.NewCrawlLogRepo(db)
	got, err := repo.CountByStatus(context.Background())
	if err != nil {
		t.Fatalf("CountByStatus err=%v", err)
	}
	want := map[entity.CrawlStatus]int{entity.CrawlSuccess: 10, entity.CrawlFailed: 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
