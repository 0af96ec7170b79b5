package wizard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/sessionstore"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

func TestUpdateMergesLastWriteWins(t *testing.T) {
	store := wizard.New("s1", nil)
	ctx := context.Background()

	store.Update(ctx, briefing.CampaignData{
		briefing.KeyCampaignName: "Vestibular 2026",
		briefing.KeyCampaignType: "captacao",
	})
	store.Update(ctx, briefing.CampaignData{
		briefing.KeyCampaignName: "Vestibular 2026.2",
	})

	data := store.Data()
	assert.Equal(t, "Vestibular 2026.2", data.String(briefing.KeyCampaignName))
	assert.Equal(t, "captacao", data.String(briefing.KeyCampaignType), "untouched keys survive the merge")
}

func TestDataReturnsClone(t *testing.T) {
	store := wizard.New("s1", nil)
	ctx := context.Background()
	store.Update(ctx, briefing.CampaignData{briefing.KeyChannel: []string{"sms"}})

	leaked := store.Data()
	leaked[briefing.KeyCampaignName] = "mutated"
	leaked[briefing.KeyChannel].([]string)[0] = "email"

	data := store.Data()
	assert.False(t, data.Has(briefing.KeyCampaignName))
	assert.Equal(t, []string{"sms"}, data.Strings(briefing.KeyChannel))
}

func TestSubscribersSeeMergedStateSynchronously(t *testing.T) {
	store := wizard.New("s1", nil)
	ctx := context.Background()

	var notified []briefing.CampaignData
	store.Subscribe(func(data briefing.CampaignData) {
		notified = append(notified, data)
	})

	store.Update(ctx, briefing.CampaignData{briefing.KeyCampaignName: "a"})
	store.Update(ctx, briefing.CampaignData{briefing.KeyCampaignType: "b"})

	require.Len(t, notified, 2)
	assert.Equal(t, "a", notified[0].String(briefing.KeyCampaignName))
	assert.Equal(t, "a", notified[1].String(briefing.KeyCampaignName))
	assert.Equal(t, "b", notified[1].String(briefing.KeyCampaignType))
}

func TestEmptyPatchDoesNotNotify(t *testing.T) {
	store := wizard.New("s1", nil)
	calls := 0
	store.Subscribe(func(briefing.CampaignData) { calls++ })

	store.Update(context.Background(), briefing.CampaignData{})
	assert.Zero(t, calls)
}

func TestResetRestoresInitialState(t *testing.T) {
	store := wizard.New("s1", nil)
	ctx := context.Background()
	store.Update(ctx, briefing.CampaignData{briefing.KeyCampaignName: "x"})

	store.Reset(ctx)
	assert.Empty(t, store.Data())
}

func TestRemoveDeletesOnlyGivenKeys(t *testing.T) {
	store := wizard.New("s1", nil)
	ctx := context.Background()
	store.Update(ctx, briefing.CampaignData{
		briefing.KeyCampaignName:   "x",
		briefing.KeyGeneratedQuery: "SELECT 1",
		briefing.KeyQueries:        []string{"SELECT 1"},
	})

	store.Remove(ctx, briefing.KeyGeneratedQuery, briefing.KeyQueries)

	data := store.Data()
	assert.Equal(t, "x", data.String(briefing.KeyCampaignName))
	assert.False(t, data.Has(briefing.KeyGeneratedQuery))
	assert.False(t, data.Has(briefing.KeyQueries))
}

func TestStorePersistsAndReloadsSnapshot(t *testing.T) {
	snapshots := sessionstore.NewMemoryStore()
	ctx := context.Background()

	store := wizard.New("s1", snapshots)
	store.Load(ctx)
	store.Update(ctx, briefing.CampaignData{
		briefing.KeyCampaignName: "Persistida",
		briefing.KeyChannel:      []string{"sms", "email"},
	})

	// Simulate a restart: a fresh store over the same snapshot store.
	revived := wizard.New("s1", snapshots)
	revived.Load(ctx)

	data := revived.Data()
	assert.Equal(t, "Persistida", data.String(briefing.KeyCampaignName))
	assert.Equal(t, []string{"sms", "email"}, data.Strings(briefing.KeyChannel))
}

func TestRegistryRebuildsKnownSessionAfterRestart(t *testing.T) {
	snapshots := sessionstore.NewMemoryStore()
	ctx := context.Background()

	registry := wizard.NewRegistry(snapshots)
	created := registry.Create(ctx)
	created.Update(ctx, briefing.CampaignData{briefing.KeyCampaignName: "sobrevive"})

	restarted := wizard.NewRegistry(snapshots)
	revived, ok := restarted.Get(ctx, created.SessionID())
	require.True(t, ok)
	assert.Equal(t, "sobrevive", revived.Data().String(briefing.KeyCampaignName))

	_, ok = restarted.Get(ctx, "nunca-existiu")
	assert.False(t, ok)
}

func TestRegistryDropClearsSnapshot(t *testing.T) {
	snapshots := sessionstore.NewMemoryStore()
	ctx := context.Background()

	registry := wizard.NewRegistry(snapshots)
	store := registry.Create(ctx)
	store.Update(ctx, briefing.CampaignData{briefing.KeyCampaignName: "x"})
	registry.Drop(ctx, store.SessionID())

	_, ok, err := snapshots.Load(ctx, store.SessionID())
	require.NoError(t, err)
	assert.False(t, ok)
}
