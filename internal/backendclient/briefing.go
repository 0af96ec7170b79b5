package backendclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// StepFields fetches the field descriptors for a wizard step that has no
// upstream dependency.
func (c *Client) StepFields(ctx context.Context, step int) ([]briefing.FieldDescriptor, error) {
	return c.stepFields(ctx, fmt.Sprintf("/api/briefing/step/%d", step))
}

// StepFieldsFor fetches the field descriptors for a step whose schema depends
// on a selection made earlier (the source base).
func (c *Client) StepFieldsFor(ctx context.Context, step int, sourceBaseID string) ([]briefing.FieldDescriptor, error) {
	if sourceBaseID == "" {
		return c.StepFields(ctx, step)
	}
	return c.stepFields(ctx, fmt.Sprintf("/api/briefing/step/%d/%s", step, url.PathEscape(sourceBaseID)))
}

func (c *Client) stepFields(ctx context.Context, path string) ([]briefing.FieldDescriptor, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// An empty field list is "no fields", not an error.
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var wire []briefing.WireField
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("%w: unexpected field list from %s: %v", ErrMalformed, path, err)
	}
	return briefing.NormalizeFields(wire), nil
}

// queryTextPayload tolerates both response shapes of the generate endpoint: a
// bare string, or an object carrying query_text.
type queryTextPayload struct {
	QueryText string `json:"query_text"`
}

// GenerateAudienceQuery asks the backend to produce the audience SQL query
// text from the accumulated campaign data.
func (c *Client) GenerateAudienceQuery(ctx context.Context, payload map[string]any) (string, error) {
	const path = "/api/generate/audience_query"
	env, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return "", err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return "", fmt.Errorf("%w: missing query text from %s", ErrMalformed, path)
	}
	var asString string
	if err := json.Unmarshal(env.Data, &asString); err == nil {
		if asString == "" {
			return "", fmt.Errorf("%w: empty query text from %s", ErrMalformed, path)
		}
		return asString, nil
	}
	var asObject queryTextPayload
	if err := json.Unmarshal(env.Data, &asObject); err != nil || asObject.QueryText == "" {
		return "", fmt.Errorf("%w: unexpected query payload from %s", ErrMalformed, path)
	}
	return asObject.QueryText, nil
}

// CampaignDataRequest is the audience/cost computation payload.
type CampaignDataRequest struct {
	CampaignName   string   `json:"campaign_name"`
	CampaignType   string   `json:"campaign_type"`
	Channels       []string `json:"channels"`
	QueryText      string   `json:"query_text"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
}

// CampaignDataResult carries the audience volume and the per-channel cost
// strings (pt-BR formatted, plus a "Total" pseudo-channel).
type CampaignDataResult struct {
	AudienceVolume float64           `json:"audience_volume"`
	EstimatedCosts map[string]string `json:"estimated_costs"`
}

// GenerateCampaignData asks the backend to compute audience size and
// estimated costs for the generated query.
func (c *Client) GenerateCampaignData(ctx context.Context, req CampaignDataRequest) (*CampaignDataResult, error) {
	const path = "/api/generate/campaign_data"
	env, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	var result CampaignDataResult
	if err := decodeData(env, path, &result); err != nil {
		return nil, err
	}
	if result.EstimatedCosts == nil {
		return nil, fmt.Errorf("%w: estimated_costs missing from %s", ErrMalformed, path)
	}
	return &result, nil
}
