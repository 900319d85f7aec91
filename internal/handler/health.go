package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "flyzone-api",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness reports down when the database is unreachable, so the load
// balancer stops routing before requests start failing.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Warn("readiness check failed: database unreachable", "error", err)
		status = "down"
		httpStatus = http.StatusServiceUnavailable
	}

	RespondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]string{
			"database": status,
		},
	})
}
