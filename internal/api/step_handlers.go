// File: internal/api/step_handlers.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/fields"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/steps"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

// stepFieldsView is the field list for one step. Groups is set only for the
// advanced-filters step, where the frontend renders the descriptors in
// themed sections.
type stepFieldsView struct {
	Step   int                        `json:"step"`
	Fields []briefing.FieldDescriptor `json:"fields"`
	Groups *steps.FieldGroups         `json:"groups,omitempty"`
}

// stepFromRequest parses and validates the {step} path variable, or writes a
// 400/404 and returns false.
func stepFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["step"]
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid step ordinal: "+raw)
		return 0, false
	}
	if _, ok := briefing.StepByOrdinal(n); !ok {
		respondWithError(w, http.StatusNotFound, "Unknown step: "+raw)
		return 0, false
	}
	return n, true
}

// dependsOnSourceBase reports whether a step's field set varies with the
// chosen source base. The audience step depends on its own in-progress
// selection; the filters step depends on the stored one.
func dependsOnSourceBase(step int) bool {
	return step == briefing.StepAudience || step == briefing.StepFilters
}

// submittedSourceBase pulls the source base out of an audience submission,
// tolerating both the bare string and the {value,label} option object.
func submittedSourceBase(sub steps.Submission) string {
	switch v := sub[briefing.KeySourceBase].(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["value"].(string)
		return s
	default:
		return ""
	}
}

// stepDescriptors resolves the descriptor list for a step: the static
// basic-info schema, nothing for review, and a backend fetch for the
// descriptor-driven steps in between. dependencyID is the source base the
// fetch is scoped to, empty for the base-independent schema.
func (h *APIHandler) stepDescriptors(ctx context.Context, store *wizard.Store, step int, dependencyID string) ([]briefing.FieldDescriptor, error) {
	switch step {
	case briefing.StepBasicInfo:
		return steps.BasicInfoSchema, nil
	case briefing.StepReview:
		return nil, nil
	default:
		return h.FieldLoader.Fetch(ctx, store.SessionID(), step, dependencyID)
	}
}

// StepFieldsHandler returns the field descriptors for one wizard step. For
// base-dependent steps the sourceBaseId query parameter scopes the fetch to a
// selection not yet submitted; it falls back to the stored selection. An
// empty list is a valid answer, not an error. A response superseded by a
// newer request for the same step is reported as a conflict so the caller
// simply waits for the newer one.
func (h *APIHandler) StepFieldsHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	step, ok := stepFromRequest(w, r)
	if !ok {
		return
	}

	var dependencyID string
	if dependsOnSourceBase(step) {
		dependencyID = r.URL.Query().Get("sourceBaseId")
		if dependencyID == "" {
			dependencyID = store.Data().String(briefing.KeySourceBaseID)
		}
	}

	descriptors, err := h.stepDescriptors(r.Context(), store, step, dependencyID)
	if err != nil {
		if errors.Is(err, fields.ErrSuperseded) {
			respondWithError(w, http.StatusConflict, "A newer field request for this step is in flight")
			return
		}
		respondWithFlowError(w, err)
		return
	}
	if descriptors == nil {
		descriptors = []briefing.FieldDescriptor{}
	}

	view := stepFieldsView{Step: step, Fields: descriptors}
	if step == briefing.StepFilters {
		groups := steps.GroupFields(descriptors)
		view.Groups = &groups
	}
	respondWithData(w, http.StatusOK, view)
}

// stepSubmitResult is the successful submission payload: the updated session
// plus the route of the step that follows.
type stepSubmitResult struct {
	Session   sessionView `json:"session"`
	NextRoute string      `json:"nextRoute,omitempty"`
}

// SubmitStepHandler validates one step's submission and merges its patch into
// the session. Validation failures leave the session untouched and report the
// field-keyed messages.
func (h *APIHandler) SubmitStepHandler(w http.ResponseWriter, r *http.Request) {
	store, ok := h.sessionFromRequest(w, r)
	if !ok {
		return
	}
	step, ok := stepFromRequest(w, r)
	if !ok {
		return
	}
	ctrl, ok := steps.ForStep(step)
	if !ok {
		respondWithError(w, http.StatusMethodNotAllowed, "Step does not accept submissions")
		return
	}

	var sub steps.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission payload: "+err.Error())
		return
	}

	var dependencyID string
	if dependsOnSourceBase(step) {
		dependencyID = store.Data().String(briefing.KeySourceBaseID)
		// The audience submission carries its own base; the dependent
		// segmentation schema must come from that selection.
		if step == briefing.StepAudience {
			if chosen := submittedSourceBase(sub); chosen != "" {
				dependencyID = chosen
			}
		}
	}

	descriptors, err := h.stepDescriptors(r.Context(), store, step, dependencyID)
	if err != nil {
		if errors.Is(err, fields.ErrSuperseded) {
			respondWithError(w, http.StatusConflict, "A newer field request for this step is in flight")
			return
		}
		respondWithFlowError(w, err)
		return
	}

	patch, validationErrs := ctrl.Submit(descriptors, sub)
	if len(validationErrs) > 0 {
		respondWithFieldErrors(w, validationErrs)
		return
	}
	store.Update(r.Context(), patch)

	result := stepSubmitResult{Session: h.sessionView(store)}
	result.Session.CurrentStep = step
	if next, ok := briefing.StepByOrdinal(step + 1); ok {
		result.NextRoute = next.Route
	}
	respondWithData(w, http.StatusOK, result)
}
