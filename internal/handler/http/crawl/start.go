package crawl

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

type StartHandler struct{ Svc crawlUC.Service }

// ServeHTTP starts a crawl and answers 202 with the running log. The
// pipeline completes the crawl in the background; callers poll the log or
// the source's health endpoint for the outcome.
func (h StartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	log, _, err := h.Svc.StartCrawl(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, crawlUC.ErrSourceNotFound):
			respond.Error(w, http.StatusNotFound, err)
		case errors.Is(err, crawlUC.ErrSourceNotActive):
			respond.Error(w, http.StatusConflict, err)
		case errors.Is(err, crawlUC.ErrCrawlInProgress):
			respond.Error(w, http.StatusConflict, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusAccepted, toLogDTO(log))
}
