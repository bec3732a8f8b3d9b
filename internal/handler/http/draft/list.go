package draft

import (
	"net/http"
	"strconv"

	"opportunity-scout/internal/handler/http/respond"
	draftUC "opportunity-scout/internal/usecase/draft"
)

// ListHandler lists pending drafts, newest first.
type ListHandler struct{ Svc draftUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	drafts, err := h.Svc.ListPending(r.Context(), limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(drafts))
}
