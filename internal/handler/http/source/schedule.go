package source

import (
	"net/http"

	"opportunity-scout/internal/handler/http/respond"
	schedUC "opportunity-scout/internal/usecase/schedule"
)

// ActiveHandler lists sources eligible for scheduling.
type ActiveHandler struct{ Sched schedUC.Service }

func (h ActiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Sched.GetActiveSources(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(list))
}

// DueHandler lists active sources whose crawl window has elapsed.
type DueHandler struct{ Sched schedUC.Service }

func (h DueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Sched.GetDueSources(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(list))
}
