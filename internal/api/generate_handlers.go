// File: internal/api/generate_handlers.go
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
)

// GenerateQueryHandler asks the generation backend for the audience query
// described by the session's campaign data. Only one generation may be in
// flight per session; a second request while one runs is rejected.
func (h *APIHandler) GenerateQueryHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	query, err := h.Orchestrator.GenerateQuery(r.Context(), store)
	if err != nil {
		if errors.Is(err, orchestrator.ErrGenerationInFlight) {
			respondWithError(w, http.StatusConflict, "Uma geração de consulta já está em andamento para esta sessão")
			return
		}
		respondWithFlowError(w, err)
		return
	}

	log.Printf("API: Generated audience query for session %s (%d chars)", store.SessionID(), len(query))
	respondWithData(w, http.StatusOK, map[string]any{
		"query":   query,
		"session": h.sessionView(store),
	})
}

// RunAudienceFlowHandler runs the post-generation audience flow: volume and
// estimated costs for the generated query. Requires a prior successful
// generation.
func (h *APIHandler) RunAudienceFlowHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.Orchestrator.RunAudienceFlow(r.Context(), store)
	if err != nil {
		respondWithFlowError(w, err)
		return
	}

	respondWithData(w, http.StatusOK, map[string]any{
		"result":  result,
		"session": h.sessionView(store),
	})
}

// ClearAllDataHandler removes the generation artifacts from a session and
// blanks the campaign name, leaving the rest of the briefing intact.
func (h *APIHandler) ClearAllDataHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}

	h.Orchestrator.ClearAllData(r.Context(), store)
	log.Printf("API: Cleared generation data for session %s", store.SessionID())
	respondWithData(w, http.StatusOK, h.sessionView(store))
}
