// File: internal/api/archive_handlers.go
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
)

// ListArchivesHandler returns the saved campaign records.
func (h *APIHandler) ListArchivesHandler(w http.ResponseWriter, r *http.Request) {
	archives, err := h.Backend.ListArchives(r.Context())
	if err != nil {
		respondWithFlowError(w, err)
		return
	}
	if archives == nil {
		archives = []backendclient.Archive{}
	}
	respondWithData(w, http.StatusOK, archives)
}

// SaveArchiveHandler persists a campaign record on the backend.
func (h *APIHandler) SaveArchiveHandler(w http.ResponseWriter, r *http.Request) {
	var archive backendclient.Archive
	if err := json.NewDecoder(r.Body).Decode(&archive); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid archive payload: "+err.Error())
		return
	}
	if archive.CampaignName == "" {
		respondWithError(w, http.StatusBadRequest, "Archive requires a campaign_name")
		return
	}

	saved, err := h.Backend.SaveArchive(r.Context(), archive)
	if err != nil {
		respondWithFlowError(w, err)
		return
	}
	log.Printf("API: Saved archive %s (%s)", saved.ID, saved.CampaignName)
	respondWithData(w, http.StatusCreated, saved)
}

// GetArchiveHandler returns one saved campaign record by id.
func (h *APIHandler) GetArchiveHandler(w http.ResponseWriter, r *http.Request) {
	archiveID := mux.Vars(r)["archiveId"]
	if archiveID == "" {
		respondWithError(w, http.StatusBadRequest, "Archive ID missing")
		return
	}

	archive, err := h.Backend.GetArchive(r.Context(), archiveID)
	if err != nil {
		respondWithFlowError(w, err)
		return
	}
	respondWithData(w, http.StatusOK, archive)
}

// ListTemplatesHandler returns the records flagged reusable.
func (h *APIHandler) ListTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Backend.ListTemplates(r.Context())
	if err != nil {
		respondWithFlowError(w, err)
		return
	}
	if templates == nil {
		templates = []backendclient.Archive{}
	}
	respondWithData(w, http.StatusOK, templates)
}

// SaveTemplateHandler persists a campaign record as a reusable template.
func (h *APIHandler) SaveTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var archive backendclient.Archive
	if err := json.NewDecoder(r.Body).Decode(&archive); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template payload: "+err.Error())
		return
	}
	if archive.CampaignName == "" {
		respondWithError(w, http.StatusBadRequest, "Template requires a campaign_name")
		return
	}
	archive.IsTemplate = true

	saved, err := h.Backend.SaveTemplate(r.Context(), archive)
	if err != nil {
		respondWithFlowError(w, err)
		return
	}
	log.Printf("API: Saved template %s (%s)", saved.ID, saved.CampaignName)
	respondWithData(w, http.StatusCreated, saved)
}
