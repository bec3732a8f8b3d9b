package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/sources.sql
var seedSourcesSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS crawl_sources (
    id            SERIAL PRIMARY KEY,
    name          TEXT NOT NULL,
    url           TEXT NOT NULL UNIQUE,
    status        VARCHAR(20) NOT NULL DEFAULT 'active',
    frequency     VARCHAR(20) NOT NULL DEFAULT 'daily',
    max_results   INTEGER NOT NULL DEFAULT 50,
    last_crawl    TIMESTAMPTZ,
    last_success  BOOLEAN NOT NULL DEFAULT FALSE,
    error_message TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT chk_source_status CHECK (status IN ('active', 'paused', 'disabled')),
    CONSTRAINT chk_source_frequency CHECK (frequency IN ('hourly', 'daily', 'weekly', 'monthly')),
    CONSTRAINT chk_source_max_results CHECK (max_results BETWEEN 1 AND 1000)
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS crawl_logs (
    id            SERIAL PRIMARY KEY,
    source_id     INTEGER NOT NULL REFERENCES crawl_sources(id) ON DELETE CASCADE,
    status        VARCHAR(20) NOT NULL DEFAULT 'running',
    items_found   INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at  TIMESTAMPTZ,
    CONSTRAINT chk_crawl_log_status CHECK (status IN ('pending', 'running', 'success', 'failed'))
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS opportunities (
    id          SERIAL PRIMARY KEY,
    title       TEXT NOT NULL,
    type        VARCHAR(20) NOT NULL,
    description TEXT,
    deadline    TIMESTAMPTZ NOT NULL,
    location    TEXT NOT NULL DEFAULT 'Remote',
    link        TEXT,
    status      VARCHAR(20) NOT NULL DEFAULT 'draft',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT chk_opportunity_type CHECK (type IN ('scholarship', 'internship', 'fellowship', 'grant'))
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ai_drafts (
    id             SERIAL PRIMARY KEY,
    title          TEXT NOT NULL,
    source         TEXT NOT NULL,
    status         VARCHAR(20) NOT NULL DEFAULT 'pending',
    priority       VARCHAR(20) NOT NULL DEFAULT 'low',
    raw_content    TEXT NOT NULL DEFAULT '',
    parsed         JSONB NOT NULL,
    opportunity_id INTEGER NOT NULL REFERENCES opportunities(id) ON DELETE CASCADE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT chk_draft_status CHECK (status IN ('pending', 'approved', 'rejected')),
    CONSTRAINT chk_draft_priority CHECK (priority IN ('high', 'medium', 'low'))
)`); err != nil {
		return err
	}

	indexes := []string{
		// scheduler scan: active sources ordered by last crawl
		`CREATE INDEX IF NOT EXISTS idx_crawl_sources_status ON crawl_sources(status)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_sources_last_crawl ON crawl_sources(last_crawl ASC NULLS FIRST) WHERE status = 'active'`,
		// per-source log history, newest first
		`CREATE INDEX IF NOT EXISTS idx_crawl_logs_source_started ON crawl_logs(source_id, started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_logs_started_at ON crawl_logs(started_at DESC)`,
		// dedup key lookup by title
		`CREATE INDEX IF NOT EXISTS idx_opportunities_title ON opportunities(title)`,
		// review queue
		`CREATE INDEX IF NOT EXISTS idx_ai_drafts_status_created ON ai_drafts(status, created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Partial unique index backs the one-running-log-per-source invariant
	// at the storage level.
	if _, err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_crawl_logs_one_running
    ON crawl_logs(source_id) WHERE status = 'running'`); err != nil {
		return err
	}

	// pg_trgm speeds up ILIKE search on source name and URL. Errors are
	// ignored when the extension is unavailable.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_crawl_sources_name_gin ON crawl_sources USING gin(name gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_crawl_sources_url_gin ON crawl_sources USING gin(url gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	// Seed data insertion skips duplicates.
	if _, err := db.Exec(seedSourcesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown rolls back the database schema in reverse dependency order.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS ai_drafts CASCADE`,
		`DROP TABLE IF EXISTS opportunities CASCADE`,
		`DROP TABLE IF EXISTS crawl_logs CASCADE`,
		`DROP TABLE IF EXISTS crawl_sources CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
