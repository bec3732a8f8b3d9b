package source

import (
	"errors"
	"net/http"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	srcUC "opportunity-scout/internal/usecase/source"
)

type statusAction string

const (
	actionPause   statusAction = "pause"
	actionResume  statusAction = "resume"
	actionDisable statusAction = "disable"
)

// StatusHandler serves the pause/resume/disable lifecycle transitions.
type StatusHandler struct {
	Svc    srcUC.Service
	Action statusAction
}

func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var src *entity.CrawlSource
	switch h.Action {
	case actionPause:
		src, err = h.Svc.Pause(r.Context(), id)
	case actionResume:
		src, err = h.Svc.Resume(r.Context(), id)
	case actionDisable:
		src, err = h.Svc.Disable(r.Context(), id)
	default:
		respond.SafeError(w, http.StatusInternalServerError,
			errors.New("unknown status action"))
		return
	}
	if err != nil {
		if errors.Is(err, srcUC.ErrSourceNotFound) {
			respond.Error(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(src))
}
