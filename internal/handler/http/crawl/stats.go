package crawl

import (
	"net/http"

	"opportunity-scout/internal/handler/http/respond"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

// StatsHandler reports aggregate source and crawl counts.
type StatsHandler struct{ Svc crawlUC.Service }

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.GetCrawlStats(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}
