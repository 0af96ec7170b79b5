package steps

import "github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"

// AudienceController handles the audience-definition step. Its descriptors
// come from the backend; choosing a source base makes the segmentation field
// set dependent on that base. The patch records the chosen base three ways:
// source_base_id (dependency id for later steps), base_origin (list form the
// generator consumes), and the segmentation values in insertion order.
type AudienceController struct{}

func (AudienceController) Step() int { return briefing.StepAudience }

func (AudienceController) Submit(descriptors []briefing.FieldDescriptor, sub Submission) (briefing.CampaignData, ValidationErrors) {
	errs := ValidationErrors{}
	validateDescriptors(descriptors, sub, errs)

	sourceBase := submittedString(sub[briefing.KeySourceBase])
	if sourceBase == "" {
		errs[briefing.KeySourceBase] = "Base de origem é obrigatória"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	patch := descriptorPatch(descriptors, sub)
	patch[briefing.KeySourceBase] = sourceBase
	patch[briefing.KeySourceBaseID] = sourceBase
	patch[briefing.KeyBaseOrigin] = []string{sourceBase}
	if seg, present := sub[briefing.KeySegmentation]; present && !isEmpty(seg) {
		patch[briefing.KeySegmentation] = flattenMulti(seg)
	}
	return patch, nil
}
