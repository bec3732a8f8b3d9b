package source

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	srcUC "opportunity-scout/internal/usecase/source"
)

type DeleteHandler struct{ Svc srcUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, srcUC.ErrSourceNotFound):
			respond.Error(w, http.StatusNotFound, err)
		case errors.Is(err, srcUC.ErrCrawlRunning):
			respond.Error(w, http.StatusConflict, err)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
