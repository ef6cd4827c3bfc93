package handler

import (
	"net/http"

	"github.com/jmoiron/sqlx"
)

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check answers liveness probes. The DB ping is the only dependency worth
// checking; blob store reachability only matters per-request.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	err := h.db.Ping()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
