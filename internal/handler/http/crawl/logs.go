package crawl

import (
	"errors"
	"net/http"
	"strconv"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

// limitParam parses an optional ?limit= query value; 0 lets the use case
// apply its default.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// SourceLogsHandler lists the crawl history of one source, newest first.
type SourceLogsHandler struct{ Svc crawlUC.Service }

func (h SourceLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	logs, err := h.Svc.GetCrawlLogs(r.Context(), id, limitParam(r))
	if err != nil {
		if errors.Is(err, crawlUC.ErrSourceNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toLogDTOs(logs))
}

// RecentLogsHandler lists the most recent logs across all sources.
type RecentLogsHandler struct{ Svc crawlUC.Service }

func (h RecentLogsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Svc.GetRecentCrawlLogs(r.Context(), limitParam(r))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toLogDTOs(logs))
}
