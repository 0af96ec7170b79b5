// Package sessionstore provides SnapshotStore implementations for wizard
// session persistence.
package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
	"github.com/joaolucasdevmath/maip-campaign-builder/internal/wizard"
)

// MemoryStore keeps serialized session snapshots in memory. Snapshots are
// stored as JSON so load/save round-trips behave exactly like the durable
// implementations.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// Load returns the snapshot for a session, if one was saved.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (briefing.CampaignData, bool, error) {
	s.mu.RLock()
	raw, ok := s.snapshots[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	var data briefing.CampaignData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("corrupt snapshot for session %s: %w", sessionID, err)
	}
	return data, true, nil
}

// Save replaces the snapshot for a session.
func (s *MemoryStore) Save(_ context.Context, sessionID string, data briefing.CampaignData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for session %s: %w", sessionID, err)
	}
	s.mu.Lock()
	s.snapshots[sessionID] = raw
	s.mu.Unlock()
	return nil
}

// Clear removes the snapshot for a session. Clearing an absent session is a
// no-op.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.snapshots, sessionID)
	s.mu.Unlock()
	return nil
}

var _ wizard.SnapshotStore = (*MemoryStore)(nil)
