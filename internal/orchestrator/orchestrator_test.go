package orchestrator_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/backendclient"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/orchestrator"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/sessionstore"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

type fakeBackend struct {
	queryText    string
	queryErr     error
	queryPayload map[string]any
	queryGate    chan struct{}

	dataResult *backendclient.CampaignDataResult
	dataErr    error
	dataReq    backendclient.CampaignDataRequest
}

func (f *fakeBackend) GenerateAudienceQuery(ctx context.Context, payload map[string]any) (string, error) {
	f.queryPayload = payload
	if f.queryGate != nil {
		<-f.queryGate
	}
	return f.queryText, f.queryErr
}

func (f *fakeBackend) GenerateCampaignData(ctx context.Context, req backendclient.CampaignDataRequest) (*backendclient.CampaignDataResult, error) {
	f.dataReq = req
	return f.dataResult, f.dataErr
}

func newSessionStore(t *testing.T, seed briefing.CampaignData) *wizard.Store {
	t.Helper()
	store := wizard.New("test-session", sessionstore.NewMemoryStore())
	store.Load(context.Background())
	if len(seed) > 0 {
		store.Update(context.Background(), seed)
	}
	return store
}

func TestGenerateQueryWritesBothKeysAndAppendsHistory(t *testing.T) {
	backend := &fakeBackend{queryText: "SELECT id FROM leads WHERE uf = 'SP'"}
	orch := orchestrator.New(backend)
	store := newSessionStore(t, briefing.CampaignData{
		briefing.KeyCampaignName: "Vestibular",
		briefing.KeyQueries:      []string{"SELECT 1"},
	})

	query, err := orch.GenerateQuery(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM leads WHERE uf = 'SP'", query)

	data := store.Data()
	assert.Equal(t, query, data.String(briefing.KeyGeneratedQuery))
	assert.Equal(t, query, data.String(briefing.KeyGeneratedQueryAlias), "legacy alias mirrors the query")
	assert.Equal(t, []string{"SELECT 1", query}, data.Strings(briefing.KeyQueries))
}

func TestGenerateQueryPayloadCoercion(t *testing.T) {
	backend := &fakeBackend{queryText: "SELECT 1"}
	orch := orchestrator.New(backend)
	store := newSessionStore(t, briefing.CampaignData{
		briefing.KeyCampaignName: "Captação",
		briefing.KeyCampaignType: "captacao",
		briefing.KeyChannel:      []string{"sms", "email"},
		"curso_interesse":        []string{"direito", "medicina"},
		"faixa_nota":             map[string]any{"min": 450.0, "max": 800.0},
		"aceita_callcenter":      true,
	})

	_, err := orch.GenerateQuery(context.Background(), store)
	require.NoError(t, err)

	payload := backend.queryPayload
	assert.Equal(t, "Captação", payload["campaign_name"])
	assert.Equal(t, []string{"sms", "email"}, payload["campaign_channels"])

	filters, ok := payload["filters"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "direito, medicina", filters["curso_interesse"], "lists join with comma-space")
	assert.Equal(t, "450 AND 800", filters["faixa_nota"], "range bounds join with AND")
	assert.Equal(t, "true", filters["aceita_callcenter"])
	assert.NotContains(t, filters, briefing.KeyCampaignName, "header fields never leak into filters")
}

func TestGenerateQuerySingleFlightPerSession(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{queryText: "SELECT 1", queryGate: gate}
	orch := orchestrator.New(backend)
	store := newSessionStore(t, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.GenerateQuery(context.Background(), store)
		firstDone <- err
	}()

	// Wait until the first call is inside the backend.
	for !orch.IsGenerating(store.SessionID()) {
		runtime.Gosched()
	}

	_, err := orch.GenerateQuery(context.Background(), store)
	assert.ErrorIs(t, err, orchestrator.ErrGenerationInFlight)

	close(gate)
	require.NoError(t, <-firstDone)
	assert.False(t, orch.IsGenerating(store.SessionID()))

	// The guard releases: a fresh call goes through.
	_, err = orch.GenerateQuery(context.Background(), store)
	assert.NoError(t, err)
}

func TestRunAudienceFlowRequiresGeneratedQuery(t *testing.T) {
	orch := orchestrator.New(&fakeBackend{})
	store := newSessionStore(t, nil)

	_, err := orch.RunAudienceFlow(context.Background(), store)
	assert.ErrorIs(t, err, backendclient.ErrMalformed)
}

func TestRunAudienceFlowParsesCostsAndStoresResult(t *testing.T) {
	backend := &fakeBackend{
		dataResult: &backendclient.CampaignDataResult{
			AudienceVolume: 15000,
			EstimatedCosts: map[string]string{
				"sms":   "R$ 1.234,56",
				"email": "R$ 99,90",
				"Total": "R$ 1.334,46",
			},
		},
	}
	orch := orchestrator.New(backend)
	store := newSessionStore(t, briefing.CampaignData{
		briefing.KeyCampaignName:   "Vestibular",
		briefing.KeyChannel:        []string{"sms", "email"},
		briefing.KeyGeneratedQuery: "SELECT id FROM leads",
	})

	result, err := orch.RunAudienceFlow(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, result.AudienceVolume)
	assert.Equal(t, "SELECT id FROM leads", backend.dataReq.QueryText)

	data := store.Data()
	assert.Equal(t, 15000.0, data.Float(briefing.KeyAudienceVolume))

	info, ok := data[briefing.KeyAudienceInfo].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 15000.0, info["volume"])
	costs := info["costs"].(map[string]any)
	sms := costs["sms"].(map[string]any)
	assert.Equal(t, "R$ 1.234,56", sms["formatted"])
	assert.Equal(t, 1234.56, sms["value"])
}

func TestRunAudienceFlowUnparseableCostIsMalformed(t *testing.T) {
	backend := &fakeBackend{
		dataResult: &backendclient.CampaignDataResult{
			AudienceVolume: 10,
			EstimatedCosts: map[string]string{"sms": "quinhentos reais"},
		},
	}
	orch := orchestrator.New(backend)
	store := newSessionStore(t, briefing.CampaignData{
		briefing.KeyGeneratedQuery: "SELECT 1",
	})

	_, err := orch.RunAudienceFlow(context.Background(), store)
	assert.ErrorIs(t, err, backendclient.ErrMalformed)
	assert.False(t, store.Data().Has(briefing.KeyAudienceInfo), "nothing stored on failure")
}

func TestClearAllDataRemovesExactlyGeneratedKeys(t *testing.T) {
	orch := orchestrator.New(&fakeBackend{})
	ctx := context.Background()
	snapshots := sessionstore.NewMemoryStore()
	store := wizard.New("clear-me", snapshots)
	store.Load(ctx)
	store.Update(ctx, briefing.CampaignData{
		briefing.KeyCampaignName:        "Apagar",
		briefing.KeyCampaignType:        "captacao",
		briefing.KeyOffer:               "bolsa",
		briefing.KeyGeneratedQuery:      "SELECT 1",
		briefing.KeyGeneratedQueryAlias: "SELECT 1",
		briefing.KeyAudienceInfo:        map[string]any{"volume": 10.0},
		briefing.KeyQueries:             []string{"SELECT 1"},
	})

	orch.ClearAllData(ctx, store)

	data := store.Data()
	assert.False(t, data.Has(briefing.KeyGeneratedQuery))
	assert.False(t, data.Has(briefing.KeyGeneratedQueryAlias))
	assert.False(t, data.Has(briefing.KeyAudienceInfo))
	assert.False(t, data.Has(briefing.KeyQueries))
	assert.Equal(t, "", data.String(briefing.KeyCampaignName), "campaign name is blanked, not removed")
	assert.True(t, data.Has(briefing.KeyCampaignName))
	assert.Equal(t, "captacao", data.String(briefing.KeyCampaignType), "other briefing fields survive")
	assert.Equal(t, "bolsa", data.String(briefing.KeyOffer))

	_, ok, err := snapshots.Load(ctx, "clear-me")
	require.NoError(t, err)
	assert.False(t, ok, "persisted snapshot is dropped")
}
