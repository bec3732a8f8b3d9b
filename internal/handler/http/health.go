package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"opportunity-scout/internal/handler/http/respond"
)

// HealthResponse is the body of the health check endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"` // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single dependency check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PipelineStatus reports whether the crawl pipeline accepts work.
type PipelineStatus interface {
	Running() bool
}

// HealthHandler answers readiness probes: it pings the database and checks
// that the crawl pipeline is accepting submissions.
type HealthHandler struct {
	DB       *sql.DB
	Pipeline PipelineStatus
	Version  string
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{}
	healthy := true

	if err := h.DB.PingContext(ctx); err != nil {
		healthy = false
		checks["database"] = CheckStatus{Status: "unhealthy", Message: "database unreachable"}
	} else {
		checks["database"] = CheckStatus{Status: "healthy"}
	}

	if h.Pipeline != nil {
		if h.Pipeline.Running() {
			checks["pipeline"] = CheckStatus{Status: "healthy"}
		} else {
			healthy = false
			checks["pipeline"] = CheckStatus{Status: "unhealthy", Message: "pipeline not accepting crawls"}
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}
