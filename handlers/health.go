package handlers

import (
	"net/http"
)

// Health reports process liveness and store reachability
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  Response{data=map[string]string}
// @Router       /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	if err := DB.Ping(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: map[string]string{"status": "ok"}})
}
