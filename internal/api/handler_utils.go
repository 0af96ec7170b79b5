// File: internal/api/handler_utils.go
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
)

// envelope mirrors the generation backend's response wrapper so frontend
// readers handle both services identically.
type envelope struct {
	Success      bool   `json:"success"`
	Code         int    `json:"code"`
	Data         any    `json:"data,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// respondWithData sends a success envelope.
func respondWithData(w http.ResponseWriter, code int, data any) {
	respondWithJSON(w, code, envelope{Success: true, Code: code, Data: data})
}

// respondWithError sends a failure envelope.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, envelope{Success: false, Code: code, ErrorMessage: message})
}

// respondWithFieldErrors sends the 422 shape step submissions use: the same
// failure envelope plus the field-keyed messages for inline display.
func respondWithFieldErrors(w http.ResponseWriter, fieldErrors map[string]string) {
	respondWithJSON(w, http.StatusUnprocessableEntity, envelope{
		Success:      false,
		Code:         http.StatusUnprocessableEntity,
		ErrorMessage: "validation failed",
		Data:         map[string]any{"fieldErrors": fieldErrors},
	})
}

// respondWithFlowError maps an orchestration error onto status code and
// friendly message following the failure taxonomy.
func respondWithFlowError(w http.ResponseWriter, err error) {
	message := orchestrator.FriendlyMessage(err)
	switch orchestrator.Classify(err) {
	case orchestrator.KindConnection:
		respondWithError(w, http.StatusBadGateway, message)
	case orchestrator.KindBusiness:
		respondWithError(w, http.StatusUnprocessableEntity, message)
	case orchestrator.KindMalformed:
		respondWithError(w, http.StatusBadGateway, message)
	default:
		respondWithError(w, http.StatusInternalServerError, message)
	}
}

// respondWithJSON sends a JSON response with the given status code and payload.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("API Error: Failed to marshal JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "{\"success\":false,\"errorMessage\":\"Failed to marshal JSON response: %v\"}", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
