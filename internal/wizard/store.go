// File: internal/wizard/store.go
package wizard

import (
	"context"
	"log"
	"sync"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// SnapshotStore is the persistence port for wizard session snapshots. The
// store survives without it: read and write failures degrade to in-memory
// state, they are never fatal to the session.
type SnapshotStore interface {
	// Load returns the persisted snapshot for a session, and whether one exists.
	Load(ctx context.Context, sessionID string) (briefing.CampaignData, bool, error)
	// Save replaces the persisted snapshot for a session.
	Save(ctx context.Context, sessionID string, data briefing.CampaignData) error
	// Clear removes the persisted snapshot for a session.
	Clear(ctx context.Context, sessionID string) error
}

// Subscriber receives a clone of the full state after every mutation.
type Subscriber func(briefing.CampaignData)

// Store holds the single CampaignData value for one wizard session and
// broadcasts updates to subscribers. All writers merge through Update with
// last-write-wins per key; subscribers are notified synchronously in
// subscription order, so a read issued after Update returns always observes
// the merged state.
type Store struct {
	mu          sync.RWMutex
	sessionID   string
	data        briefing.CampaignData
	snapshots   SnapshotStore
	subscribers []Subscriber
	loaded      bool
}

// New creates a store for the given session backed by the snapshot store.
func New(sessionID string, snapshots SnapshotStore) *Store {
	return &Store{
		sessionID: sessionID,
		data:      briefing.InitialCampaignData(),
		snapshots: snapshots,
	}
}

// Load reads the persisted snapshot once, on first activation. A missing or
// unreadable snapshot falls back to the canonical initial state silently; the
// failure is logged but not surfaced.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true
	if s.snapshots == nil {
		return
	}
	data, ok, err := s.snapshots.Load(ctx, s.sessionID)
	if err != nil {
		log.Printf("Store: session %s snapshot load failed, continuing in-memory: %v", s.sessionID, err)
		return
	}
	if !ok {
		return
	}
	s.data = data
}

// Data returns a clone of the current state.
func (s *Store) Data() briefing.CampaignData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Subscribe registers a subscriber for future mutations.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Update shallow-merges patch into the current state. Keys are never removed
// here; a nil value still overwrites. The merged state is broadcast and then
// persisted best-effort.
func (s *Store) Update(ctx context.Context, patch briefing.CampaignData) {
	if len(patch) == 0 {
		return
	}
	s.mu.Lock()
	for k, v := range patch {
		s.data[k] = v
	}
	snapshot := s.data.Clone()
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	s.persist(ctx, snapshot)
}

// Reset replaces the state with the canonical initial value.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.data = briefing.InitialCampaignData()
	snapshot := s.data.Clone()
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	s.persist(ctx, snapshot)
}

// Remove deletes the given keys from the state. It exists for the partial
// clear flow, which removes generated-query keys without touching the rest of
// the accumulated campaign fields.
func (s *Store) Remove(ctx context.Context, keys ...string) {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.data, k)
	}
	snapshot := s.data.Clone()
	subs := s.subscribers
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	s.persist(ctx, snapshot)
}

// ClearSnapshot removes the persisted snapshot without touching in-memory
// state.
func (s *Store) ClearSnapshot(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Clear(ctx, s.sessionID); err != nil {
		log.Printf("Store: session %s snapshot clear failed: %v", s.sessionID, err)
	}
}

func (s *Store) persist(ctx context.Context, snapshot briefing.CampaignData) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, s.sessionID, snapshot); err != nil {
		log.Printf("Store: session %s snapshot save failed, state kept in-memory: %v", s.sessionID, err)
	}
}
