package source

import (
	"net/http"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/handler/http/respond"
	"opportunity-scout/internal/repository"
	srcUC "opportunity-scout/internal/usecase/source"
)

type ListHandler struct{ Svc srcUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.SourceFilter{
		Status:    entity.SourceStatus(q.Get("status")),
		Frequency: entity.Frequency(q.Get("frequency")),
		Search:    q.Get("q"),
	}
	list, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(list))
}
