package steps

import (
	"strings"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// Known prefix groups of the advanced-filter step. Fields matching them are
// rendered in grouped sections, but their values still flow through the same
// generic patch computation as every other descriptor.
const (
	EntryFormPrefix  = "forma_ingresso_"
	ExamStatusPrefix = "status_prova_"
)

// The call-center boolean pair is mutually exclusive.
const (
	fieldAcceptsCallCenter = "aceita_callcenter"
	fieldRefusesCallCenter = "nao_aceita_callcenter"
)

// FieldGroups is the advanced-filter step's sectioned view of its
// descriptors. Grouping is presentational only.
type FieldGroups struct {
	EntryForms []briefing.FieldDescriptor `json:"entryForms"`
	ExamStatus []briefing.FieldDescriptor `json:"examStatus"`
	Other      []briefing.FieldDescriptor `json:"other"`
}

// GroupFields splits descriptors into the advanced-filter sections by name
// prefix, preserving order within each group.
func GroupFields(descriptors []briefing.FieldDescriptor) FieldGroups {
	var groups FieldGroups
	for _, fd := range descriptors {
		switch {
		case strings.HasPrefix(fd.Name, EntryFormPrefix):
			groups.EntryForms = append(groups.EntryForms, fd)
		case strings.HasPrefix(fd.Name, ExamStatusPrefix):
			groups.ExamStatus = append(groups.ExamStatus, fd)
		default:
			groups.Other = append(groups.Other, fd)
		}
	}
	return groups
}

// AdvancedFilterController handles the advanced-filter step. On top of the
// generic descriptor rules it enforces the cross-field constraints: at least
// one entry-form checkbox must be selected, and the call-center pair cannot
// both be true.
type AdvancedFilterController struct{}

func (AdvancedFilterController) Step() int { return briefing.StepFilters }

func (AdvancedFilterController) Submit(descriptors []briefing.FieldDescriptor, sub Submission) (briefing.CampaignData, ValidationErrors) {
	errs := ValidationErrors{}
	validateDescriptors(descriptors, sub, errs)

	entryFormSeen := false
	entryFormChecked := false
	for _, fd := range descriptors {
		if !strings.HasPrefix(fd.Name, EntryFormPrefix) {
			continue
		}
		entryFormSeen = true
		if submittedBool(sub[fd.Name]) {
			entryFormChecked = true
			break
		}
	}
	if entryFormSeen && !entryFormChecked {
		errs[""] = "Selecione ao menos uma forma de ingresso"
	}

	if submittedBool(sub[fieldAcceptsCallCenter]) && submittedBool(sub[fieldRefusesCallCenter]) {
		errs[fieldRefusesCallCenter] = "As opções de call center são mutuamente exclusivas"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return descriptorPatch(descriptors, sub), nil
}
