package source

import (
	"encoding/json"
	"errors"
	"net/http"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/handler/http/pathutil"
	"opportunity-scout/internal/handler/http/respond"
	srcUC "opportunity-scout/internal/usecase/source"
)

type UpdateHandler struct{ Svc srcUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name       string `json:"name"`
		URL        string `json:"url"`
		Status     string `json:"status"`
		Frequency  string `json:"frequency"`
		MaxResults int    `json:"max_results"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	src, err := h.Svc.Update(r.Context(), srcUC.UpdateInput{
		ID:         id,
		Name:       req.Name,
		URL:        req.URL,
		Status:     entity.SourceStatus(req.Status),
		Frequency:  entity.Frequency(req.Frequency),
		MaxResults: req.MaxResults,
	})
	if err != nil {
		code := http.StatusBadRequest
		switch {
		case errors.Is(err, srcUC.ErrSourceNotFound):
			code = http.StatusNotFound
		case errors.Is(err, srcUC.ErrDuplicateSourceURL):
			code = http.StatusConflict
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(src))
}
