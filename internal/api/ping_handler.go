// File: internal/api/ping_handler.go
package api

import "net/http"

// PingHandler is the unauthenticated liveness check.
func (h *APIHandler) PingHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "pong"})
}
