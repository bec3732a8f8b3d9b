package source

import (
	"encoding/json"
	"errors"
	"net/http"

	"opportunity-scout/internal/domain/entity"
	"opportunity-scout/internal/handler/http/respond"
	srcUC "opportunity-scout/internal/usecase/source"
)

type CreateHandler struct{ Svc srcUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	if req.Name == "" || req.URL == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("name and url required"))
		return
	}
	src, err := h.Svc.Create(r.Context(), srcUC.CreateInput{
		Name:       req.Name,
		URL:        req.URL,
		Status:     entity.SourceStatus(req.Status),
		Frequency:  entity.Frequency(req.Frequency),
		MaxResults: req.MaxResults,
	})
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, srcUC.ErrDuplicateSourceURL) {
			code = http.StatusConflict
		}
		respond.SafeError(w, code, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(src))
}
