// File: internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter assembles the wizard API. Everything under /api/v1 requires the
// configured API key.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.Use(LoggingMiddleware)
	router.Use(CORSMiddleware)

	router.HandleFunc("/ping", h.PingHandler).Methods(http.MethodGet, http.MethodOptions)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(APIKeyAuthMiddleware(h.Config.Server.APIKey))

	// Wizard sessions
	apiV1.HandleFunc("/sessions", h.CreateSessionHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}", h.GetSessionHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}", h.ResetSessionHandler).Methods(http.MethodDelete, http.MethodOptions)

	// Step forms
	apiV1.HandleFunc("/sessions/{sessionId}/steps/{step}/fields", h.StepFieldsHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/steps/{step}", h.SubmitStepHandler).Methods(http.MethodPost, http.MethodOptions)

	// Generation flows
	apiV1.HandleFunc("/sessions/{sessionId}/generate", h.GenerateQueryHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/audience", h.RunAudienceFlowHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/sessions/{sessionId}/clear", h.ClearAllDataHandler).Methods(http.MethodPost, http.MethodOptions)

	// Archives and templates (passthrough to the generation backend)
	apiV1.HandleFunc("/archives", h.ListArchivesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/archives", h.SaveArchiveHandler).Methods(http.MethodPost, http.MethodOptions)
	apiV1.HandleFunc("/archives/{archiveId}", h.GetArchiveHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/templates", h.ListTemplatesHandler).Methods(http.MethodGet, http.MethodOptions)
	apiV1.HandleFunc("/templates", h.SaveTemplateHandler).Methods(http.MethodPost, http.MethodOptions)

	return router
}
