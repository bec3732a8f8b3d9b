package crawl

import (
	"net/http"

	crawlUC "opportunity-scout/internal/usecase/crawl"
)

// Register wires the crawl orchestration routes onto the mux.
func Register(mux *http.ServeMux, svc crawlUC.Service) {
	mux.Handle("POST /sources/{id}/crawl", StartHandler{svc})
	mux.Handle("GET /sources/{id}/logs", SourceLogsHandler{svc})
	mux.Handle("GET /sources/{id}/health", HealthHandler{svc})
	mux.Handle("GET /crawl/logs", RecentLogsHandler{svc})
	mux.Handle("GET /crawl/stats", StatsHandler{svc})
}
