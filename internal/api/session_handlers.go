// File: internal/api/session_handlers.go
package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

// sessionView is the session payload returned to the frontend: the full
// campaign data plus the navigation state derived from it.
type sessionView struct {
	SessionID    string                `json:"sessionId"`
	CurrentStep  int                   `json:"currentStep"`
	Data         briefing.CampaignData `json:"data"`
	StepLinks    []briefing.StepLink   `json:"stepLinks"`
	IsGenerating bool                  `json:"isGenerating"`
}

func (h *APIHandler) sessionView(store *wizard.Store) sessionView {
	data := store.Data()
	return sessionView{
		SessionID:    store.SessionID(),
		CurrentStep:  briefing.StepBasicInfo,
		Data:         data,
		StepLinks:    briefing.StepLinks(data),
		IsGenerating: h.Orchestrator.IsGenerating(store.SessionID()),
	}
}

// sessionFromRequest resolves the session store for a request, or writes a
// 404 and returns false.
func (h *APIHandler) sessionFromRequest(w http.ResponseWriter, r *http.Request) (*wizard.Store, bool) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "Session ID missing")
		return nil, false
	}
	store, ok := h.Sessions.Get(r.Context(), sessionID)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Session not found: "+sessionID)
		return nil, false
	}
	return store, true
}

// CreateSessionHandler starts a new wizard session.
func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	store := h.Sessions.Create(r.Context())
	log.Printf("API: Created wizard session %s", store.SessionID())
	respondWithData(w, http.StatusCreated, h.sessionView(store))
}

// GetSessionHandler returns the current state of a session. The optional
// route query parameter resolves the caller's wizard position; unknown routes
// resolve to the first step.
func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	view := h.sessionView(store)
	view.CurrentStep = briefing.CurrentStep(r.URL.Query().Get("route"))
	respondWithData(w, http.StatusOK, view)
}

// ResetSessionHandler replaces the session state with the canonical initial
// value and drops the persisted snapshot.
func (h *APIHandler) ResetSessionHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	store.Reset(r.Context())
	h.FieldLoader.Forget(store.SessionID())
	log.Printf("API: Reset wizard session %s", store.SessionID())
	respondWithData(w, http.StatusOK, h.sessionView(store))
}
