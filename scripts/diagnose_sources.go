// Command diagnose_sources probes every registered crawl source and reports
// which ones are reachable. Run it against a live database when sources start
// failing health checks:
//
//	DATABASE_URL=postgres://... go run scripts/diagnose_sources.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// SourceDiagnostic is the probe result for a single crawl source.
type SourceDiagnostic struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Status        string `json:"status"` // "OK", "HTTP_ERROR", "EMPTY", "TIMEOUT", "REDIRECT", "READ_ERROR", "REQUEST_ERROR"
	HTTPCode      int    `json:"http_code"`
	ErrorMessage  string `json:"error_message,omitempty"`
	RedirectURL   string `json:"redirect_url,omitempty"`
	ResponseTime  int64  `json:"response_time_ms"`
	ContentLength int64  `json:"content_length"`
}

// Source is a crawl source row, trimmed to what the probe needs.
type Source struct {
	ID     int64
	Name   string
	URL    string
	Status string
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	sources, err := fetchSources(db)
	if err != nil {
		log.Fatalf("Failed to fetch sources: %v", err)
	}

	log.Printf("Diagnosing %d crawl sources...\n", len(sources))

	diagnostics := make([]SourceDiagnostic, 0, len(sources))
	for i, source := range sources {
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(sources), source.Name)
		diag := diagnoseSource(source.Name, source.URL, 30*time.Second)
		diagnostics = append(diagnostics, diag)

		// Rate limiting to be nice to servers
		time.Sleep(500 * time.Millisecond)
	}

	generateReport(diagnostics)
	generateJSONReport(diagnostics)
}

func fetchSources(db *sql.DB) ([]Source, error) {
	rows, err := db.Query("SELECT id, name, url, status FROM crawl_sources WHERE status <> 'disabled' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Failed to close rows: %v", err)
		}
	}()

	var sources []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.URL, &s.Status); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func diagnoseSource(name, url string, timeout time.Duration) SourceDiagnostic {
	diag := SourceDiagnostic{
		Name: name,
		URL:  url,
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		diag.Status = "REQUEST_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	req.Header.Set("User-Agent", "OpportunityScout-Diagnostic/1.0")
	req.Header.Set("Accept", "text/html, application/xhtml+xml")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(startTime).Milliseconds()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
			diag.ErrorMessage = fmt.Sprintf("Request timeout after %v", timeout)
		} else {
			diag.Status = "HTTP_ERROR"
			diag.ErrorMessage = err.Error()
		}
		return diag
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	diag.ContentLength = resp.ContentLength

	if resp.Request.URL.String() != url {
		diag.RedirectURL = resp.Request.URL.String()
		diag.Status = "REDIRECT"
	}

	if resp.StatusCode != 200 {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return diag
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		diag.Status = "READ_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		diag.Status = "EMPTY"
		diag.ErrorMessage = "Response body is empty"
		return diag
	}

	if diag.Status == "" {
		diag.Status = "OK"
	}
	return diag
}

func generateReport(diagnostics []SourceDiagnostic) {
	fmt.Println("\n========== Crawl Source Diagnostic Report ==========")

	byStatus := make(map[string][]SourceDiagnostic)
	for _, d := range diagnostics {
		byStatus[d.Status] = append(byStatus[d.Status], d)
	}

	for _, status := range []string{"OK", "REDIRECT", "HTTP_ERROR", "TIMEOUT", "EMPTY", "READ_ERROR", "REQUEST_ERROR"} {
		group := byStatus[status]
		if len(group) == 0 {
			continue
		}
		fmt.Printf("\n%s (%d):\n", status, len(group))
		for _, d := range group {
			fmt.Printf("  - %s (%s)", d.Name, d.URL)
			if d.ErrorMessage != "" {
				fmt.Printf(" : %s", d.ErrorMessage)
			}
			if d.RedirectURL != "" {
				fmt.Printf(" -> %s", d.RedirectURL)
			}
			fmt.Println()
		}
	}

	fmt.Printf("\nTotal: %d sources, %d healthy\n", len(diagnostics), len(byStatus["OK"]))
}

func generateJSONReport(diagnostics []SourceDiagnostic) {
	f, err := os.Create("source_diagnostics.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report: %v", err)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}
	log.Println("JSON report written to source_diagnostics.json")
}
