package steps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/steps"
)

func TestForStep(t *testing.T) {
	for _, n := range []int{briefing.StepBasicInfo, briefing.StepAudience, briefing.StepFilters} {
		ctrl, ok := steps.ForStep(n)
		require.True(t, ok, "step %d", n)
		assert.Equal(t, n, ctrl.Step())
	}
	_, ok := steps.ForStep(briefing.StepReview)
	assert.False(t, ok, "review step has no submission controller")
}

func TestBasicInfoRequiredFields(t *testing.T) {
	patch, errs := steps.BasicInfoController{}.Submit(nil, steps.Submission{
		briefing.KeyOffer: "bolsa 50%",
	})

	assert.Nil(t, patch)
	assert.Contains(t, errs, briefing.KeyCampaignName)
	assert.Contains(t, errs, briefing.KeyCampaignType)
	assert.Contains(t, errs, briefing.KeyChannel)
	assert.NotContains(t, errs, briefing.KeyOffer, "optional fields never error")
}

func TestBasicInfoPatch(t *testing.T) {
	sub := steps.Submission{
		briefing.KeyCampaignName: "Vestibular 2026",
		briefing.KeyCampaignType: "captacao",
		briefing.KeyChannel: []any{
			"sms",
			map[string]any{"value": "email", "label": "E-mail"},
		},
		briefing.KeyAdditionalInfo: "foco em EAD",
	}

	patch, errs := steps.BasicInfoController{}.Submit(nil, sub)
	require.Empty(t, errs)
	assert.Equal(t, "Vestibular 2026", patch.String(briefing.KeyCampaignName))
	assert.Equal(t, "captacao", patch.String(briefing.KeyCampaignType))
	assert.Equal(t, []string{"sms", "email"}, patch.Strings(briefing.KeyChannel), "option objects flatten to bare values")
	assert.Equal(t, "foco em EAD", patch.String(briefing.KeyAdditionalInfo))
	assert.False(t, patch.Has(briefing.KeyOffer), "unfilled optional fields stay absent")
}

func TestBasicInfoSubmitIsDeterministic(t *testing.T) {
	sub := steps.Submission{
		briefing.KeyCampaignName: "x",
		briefing.KeyCampaignType: "y",
		briefing.KeyChannel:      []any{"sms"},
	}
	first, errs := steps.BasicInfoController{}.Submit(nil, sub)
	require.Empty(t, errs)
	second, errs := steps.BasicInfoController{}.Submit(nil, sub)
	require.Empty(t, errs)
	assert.Equal(t, first, second)
}
