package briefing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

func TestCurrentStep(t *testing.T) {
	assert.Equal(t, briefing.StepBasicInfo, briefing.CurrentStep("/briefing/basic"))
	assert.Equal(t, briefing.StepFilters, briefing.CurrentStep("/briefing/filters"))
	// Unknown routes fall back to the first step.
	assert.Equal(t, briefing.StepBasicInfo, briefing.CurrentStep("/totally/unknown"))
}

func TestStepByOrdinal(t *testing.T) {
	step, ok := briefing.StepByOrdinal(briefing.StepReview)
	require.True(t, ok)
	assert.Equal(t, "/briefing/review", step.Route)

	_, ok = briefing.StepByOrdinal(99)
	assert.False(t, ok)
}

func TestStepLinksGateOnGeneratedQuery(t *testing.T) {
	links := briefing.StepLinks(briefing.InitialCampaignData())
	require.Len(t, links, len(briefing.Steps)+2)
	for _, link := range links[:len(briefing.Steps)] {
		assert.True(t, link.Enabled, "wizard step %s should always be enabled", link.Route)
	}
	assert.False(t, links[len(briefing.Steps)].Enabled, "audience link gated before generation")
	assert.False(t, links[len(briefing.Steps)+1].Enabled, "insights link gated before generation")

	withQuery := briefing.CampaignData{briefing.KeyGeneratedQuery: "SELECT id FROM leads"}
	links = briefing.StepLinks(withQuery)
	assert.True(t, links[len(briefing.Steps)].Enabled)
	assert.True(t, links[len(briefing.Steps)+1].Enabled)
}
