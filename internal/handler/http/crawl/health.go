package crawl

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	crawlUC "opportunity-scout/internal/usecase/crawl"
)

// HealthHandler reports the derived health of one source.
type HealthHandler struct{ Svc crawlUC.Service }

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	health, err := h.Svc.GetSourceHealth(r.Context(), id)
	if err != nil {
		if errors.Is(err, crawlUC.ErrSourceNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, health)
}
