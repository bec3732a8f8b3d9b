package source

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	srcUC "opportunity-scout/internal/usecase/source"
)

type GetHandler struct{ Svc srcUC.Service }

type getDTO struct {
	DTO
	RecentLogs []logDTO `json:"recent_logs"`
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	got, err := h.Svc.GetWithLogs(r.Context(), id, 0)
	if err != nil {
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, getDTO{
		DTO:        toDTO(got.Source),
		RecentLogs: toLogDTOs(got.RecentLogs),
	})
}
