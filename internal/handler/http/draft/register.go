package draft

import (
	"net/http"

	draftUC "opportunity-scout/internal/usecase/draft"
)

// Register wires the review queue routes onto the mux.
func Register(mux *http.ServeMux, svc draftUC.Service) {
	mux.Handle("GET /drafts", ListHandler{svc})
	mux.Handle("GET /drafts/{id}", GetHandler{svc})
}
