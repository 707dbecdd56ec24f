package handlers

import (
	"net/http"
)

// Health provides a minimal liveness check endpoint. It does not probe the
// Waze upstream; an unreachable routing service surfaces per-request.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]string{"status": "ok", "service": "trip-planner"}
	writeJSON(w, r, http.StatusOK, res)
}
