package steps

import "github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"

// BasicInfoSchema is the static schema of the first step. It is not fetched
// from the backend; the basic-info form never changes shape.
var BasicInfoSchema = []briefing.FieldDescriptor{
	{Name: briefing.KeyCampaignName, Label: "Nome da campanha", Kind: briefing.KindText, Required: true},
	{Name: briefing.KeyCampaignType, Label: "Tipo de campanha", Kind: briefing.KindDropdown, Required: true},
	{Name: briefing.KeyChannel, Label: "Canais", Kind: briefing.KindDropdown, Required: true, Multiple: true},
	{Name: briefing.KeyOffer, Label: "Oferta", Kind: briefing.KindText},
	{Name: briefing.KeyAdditionalInfo, Label: "Informações adicionais", Kind: briefing.KindText},
}

// BasicInfoController handles the basic-info step. Descriptors passed to
// Submit are ignored; the static schema governs.
type BasicInfoController struct{}

func (BasicInfoController) Step() int { return briefing.StepBasicInfo }

func (BasicInfoController) Submit(_ []briefing.FieldDescriptor, sub Submission) (briefing.CampaignData, ValidationErrors) {
	errs := ValidationErrors{}
	validateDescriptors(BasicInfoSchema, sub, errs)
	if len(errs) > 0 {
		return nil, errs
	}
	return descriptorPatch(BasicInfoSchema, sub), nil
}
