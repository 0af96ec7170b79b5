// Package steps implements the per-step form controllers: each binds a step's
// field descriptors (or the static basic-info schema) to a validated
// submission and, on success, computes the partial CampaignData patch the
// wizard store merges. Validation runs on submit, never per keystroke, and a
// failed submission leaves the store untouched.
package steps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// Submission is the raw submitted form: field name to value as decoded from
// JSON (string, bool, float64, []any, map[string]any).
type Submission map[string]any

// ValidationErrors maps field names to display messages. The empty field name
// "" carries form-level errors (cross-field rules).
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if name == "" {
			parts = append(parts, v[name])
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, v[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Controller validates one step's submission and computes its patch.
type Controller interface {
	// Step returns the ordinal this controller handles.
	Step() int
	// Submit validates the submission against the step's descriptors and, on
	// success, returns the CampaignData patch. On failure it returns
	// field-keyed errors and a nil patch; no state mutation may have happened.
	// Submitting identical input twice produces an identical patch.
	Submit(descriptors []briefing.FieldDescriptor, sub Submission) (briefing.CampaignData, ValidationErrors)
}

// ForStep returns the controller for a step ordinal.
func ForStep(n int) (Controller, bool) {
	switch n {
	case briefing.StepBasicInfo:
		return BasicInfoController{}, true
	case briefing.StepAudience:
		return AudienceController{}, true
	case briefing.StepFilters:
		return AdvancedFilterController{}, true
	default:
		return nil, false
	}
}
