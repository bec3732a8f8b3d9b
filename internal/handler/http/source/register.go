// Package source exposes the crawl source registry over HTTP.
package source

import (
	"net/http"

	schedUC "opportunity-scout/internal/usecase/schedule"
	srcUC "opportunity-scout/internal/usecase/source"
)

// Register wires all source registry routes onto the mux. Scheduler views
// (active, due) register before the {id} routes so the literal segments win.
func Register(mux *http.ServeMux, svc srcUC.Service, sched schedUC.Service) {
	mux.Handle("GET /sources", ListHandler{svc})
	mux.Handle("POST /sources", CreateHandler{svc})

	mux.Handle("GET /sources/active", ActiveHandler{sched})
	mux.Handle("GET /sources/due", DueHandler{sched})

	mux.Handle("GET /sources/{id}", GetHandler{svc})
	mux.Handle("PUT /sources/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /sources/{id}", DeleteHandler{svc})

	mux.Handle("POST /sources/{id}/pause", StatusHandler{svc, actionPause})
	mux.Handle("POST /sources/{id}/resume", StatusHandler{svc, actionResume})
	mux.Handle("POST /sources/{id}/disable", StatusHandler{svc, actionDisable})
}
