// Package orchestrator drives the generation flows: it turns the accumulated
// wizard state into backend calls for query generation and audience/cost
// computation, and writes the normalized results back into the shared store.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/currency"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

// ErrGenerationInFlight is returned when a generate-query call is requested
// while another one is still running for the same session. The guard is
// advisory client-side throttling, not a server-enforced idempotency key.
var ErrGenerationInFlight = errors.New("a query generation is already in flight for this session")

// Backend is the surface of the generation backend the orchestrator uses.
type Backend interface {
	GenerateAudienceQuery(ctx context.Context, payload map[string]any) (string, error)
	GenerateCampaignData(ctx context.Context, req backendclient.CampaignDataRequest) (*backendclient.CampaignDataResult, error)
}

// Orchestrator coordinates generation flows per session.
type Orchestrator struct {
	backend Backend

	mu         sync.Mutex
	generating map[string]bool
}

// New creates an orchestrator over the given backend.
func New(backend Backend) *Orchestrator {
	return &Orchestrator{
		backend:    backend,
		generating: make(map[string]bool),
	}
}

// IsGenerating reports whether a generate-query call is in flight for the
// session.
func (o *Orchestrator) IsGenerating(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating[sessionID]
}

// GenerateQuery calls the backend to produce the audience SQL query text from
// the accumulated campaign data and stores it under both generated_query and
// the legacy generatedQuery alias. A second call while one is in flight for
// the same session returns ErrGenerationInFlight.
func (o *Orchestrator) GenerateQuery(ctx context.Context, store *wizard.Store) (string, error) {
	sessionID := store.SessionID()
	o.mu.Lock()
	if o.generating[sessionID] {
		o.mu.Unlock()
		return "", ErrGenerationInFlight
	}
	o.generating[sessionID] = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.generating, sessionID)
		o.mu.Unlock()
	}()

	data := store.Data()
	payload := generatePayload(data)
	queryText, err := o.backend.GenerateAudienceQuery(ctx, payload)
	if err != nil {
		return "", err
	}

	queries := append(data.Strings(briefing.KeyQueries), queryText)
	store.Update(ctx, briefing.CampaignData{
		briefing.KeyGeneratedQuery:      queryText,
		briefing.KeyGeneratedQueryAlias: queryText,
		briefing.KeyQueries:             queries,
	})
	log.Printf("Orchestrator: session %s generated query (%d chars)", sessionID, len(queryText))
	return queryText, nil
}

// RunAudienceFlow calls the backend to compute audience volume and estimated
// costs for the generated query and stores the normalized result. Cost
// strings arrive pt-BR formatted and must parse before any arithmetic; an
// unparseable cost is treated as malformed data in a successful response.
func (o *Orchestrator) RunAudienceFlow(ctx context.Context, store *wizard.Store) (*backendclient.CampaignDataResult, error) {
	data := store.Data()
	queryText := data.String(briefing.KeyGeneratedQuery)
	if queryText == "" {
		return nil, fmt.Errorf("%w: no generated query in session state", backendclient.ErrMalformed)
	}

	req := backendclient.CampaignDataRequest{
		CampaignName:   data.String(briefing.KeyCampaignName),
		CampaignType:   data.String(briefing.KeyCampaignType),
		Channels:       data.Strings(briefing.KeyChannel),
		QueryText:      queryText,
		AdditionalInfo: data.String(briefing.KeyAdditionalInfo),
	}
	result, err := o.backend.GenerateCampaignData(ctx, req)
	if err != nil {
		return nil, err
	}

	costs := make(map[string]any, len(result.EstimatedCosts))
	for channel, formatted := range result.EstimatedCosts {
		value, perr := currency.ParseBRL(formatted)
		if perr != nil {
			return nil, fmt.Errorf("%w: cost for %q: %v", backendclient.ErrMalformed, channel, perr)
		}
		costs[channel] = map[string]any{"formatted": formatted, "value": value}
	}

	store.Update(ctx, briefing.CampaignData{
		briefing.KeyAudienceVolume: result.AudienceVolume,
		briefing.KeyEstimatedCosts: result.EstimatedCosts,
		briefing.KeyAudienceInfo: map[string]any{
			"volume": result.AudienceVolume,
			"costs":  costs,
		},
	})
	log.Printf("Orchestrator: session %s audience flow done (volume %.0f, %d channels)",
		store.SessionID(), result.AudienceVolume, len(result.EstimatedCosts))
	return result, nil
}

// ClearAllData resets the generated-query related keys and removes the
// persisted session snapshot, leaving the rest of the accumulated campaign
// fields untouched. The key list mirrors the historical behavior exactly:
// campaign_name is blanked, campaign_type and offer are not.
func (o *Orchestrator) ClearAllData(ctx context.Context, store *wizard.Store) {
	store.Remove(ctx,
		briefing.KeyGeneratedQuery,
		briefing.KeyGeneratedQueryAlias,
		briefing.KeyAudienceInfo,
		briefing.KeyQueries,
	)
	store.Update(ctx, briefing.CampaignData{briefing.KeyCampaignName: ""})
	store.ClearSnapshot(ctx)
	log.Printf("Orchestrator: session %s cleared generated data", store.SessionID())
}

// reserved keys never sent as filters to the generate endpoint.
var reservedKeys = map[string]bool{
	briefing.KeyCampaignName:        true,
	briefing.KeyCampaignType:        true,
	briefing.KeyChannel:             true,
	briefing.KeyAdditionalInfo:      true,
	briefing.KeyGeneratedQuery:      true,
	briefing.KeyGeneratedQueryAlias: true,
	briefing.KeyAudienceVolume:      true,
	briefing.KeyEstimatedCosts:      true,
	briefing.KeyAudienceInfo:        true,
	briefing.KeyQueries:             true,
}

// generatePayload builds the generate-query request: the campaign header
// fields plus every accumulated filter coerced to a display string.
func generatePayload(data briefing.CampaignData) map[string]any {
	filters := make(map[string]string)
	for key, value := range data {
		if reservedKeys[key] {
			continue
		}
		if s := coerceFilterValue(value); s != "" {
			filters[key] = s
		}
	}
	return map[string]any{
		"campaign_name":     data.String(briefing.KeyCampaignName),
		"campaign_type":     data.String(briefing.KeyCampaignType),
		"campaign_channels": data.Strings(briefing.KeyChannel),
		"additional_info":   data.String(briefing.KeyAdditionalInfo),
		"filters":           filters,
	}
}

// coerceFilterValue renders a filter value as the display string the
// generator expects. List values join with ", "; range bounds join with
// " AND " (SQL BETWEEN semantics); booleans pass through as "true"/"false".
func coerceFilterValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := coerceFilterValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if min, okMin := v["min"]; okMin {
			if max, okMax := v["max"]; okMax {
				return coerceFilterValue(min) + " AND " + coerceFilterValue(max)
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := coerceFilterValue(v[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
