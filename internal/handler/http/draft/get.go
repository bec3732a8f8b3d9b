package draft

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	draftUC "opportunity-scout/internal/usecase/draft"
)

// GetHandler returns one draft with its full parsed payload.
type GetHandler struct{ Svc draftUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	d, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, draftUC.ErrDraftNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(d))
}
