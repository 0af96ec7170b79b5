// File: internal/wizard/registry.go
package wizard

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the live wizard sessions. Stores are created on demand and
// rebuilt from their persisted snapshot when the id is known but the process
// restarted in between.
type Registry struct {
	mu        sync.Mutex
	stores    map[string]*Store
	snapshots SnapshotStore
}

// NewRegistry creates a registry backed by the given snapshot store.
func NewRegistry(snapshots SnapshotStore) *Registry {
	return &Registry{
		stores:    make(map[string]*Store),
		snapshots: snapshots,
	}
}

// Create starts a new session with a fresh id.
func (r *Registry) Create(ctx context.Context) *Store {
	id := uuid.NewString()
	store := New(id, r.snapshots)
	store.Load(ctx)
	r.mu.Lock()
	r.stores[id] = store
	r.mu.Unlock()
	return store
}

// Get returns the store for a session id. A session unknown in memory but
// present in the snapshot store is rebuilt, so sessions survive restarts.
func (r *Registry) Get(ctx context.Context, id string) (*Store, bool) {
	r.mu.Lock()
	store, ok := r.stores[id]
	r.mu.Unlock()
	if ok {
		return store, true
	}
	if r.snapshots == nil {
		return nil, false
	}
	if _, exists, err := r.snapshots.Load(ctx, id); err != nil || !exists {
		return nil, false
	}
	store = New(id, r.snapshots)
	store.Load(ctx)
	r.mu.Lock()
	// Another request may have rebuilt it concurrently; keep the first.
	if existing, raced := r.stores[id]; raced {
		store = existing
	} else {
		r.stores[id] = store
	}
	r.mu.Unlock()
	return store, true
}

// Drop removes a session from the registry and clears its snapshot.
func (r *Registry) Drop(ctx context.Context, id string) {
	r.mu.Lock()
	store, ok := r.stores[id]
	delete(r.stores, id)
	r.mu.Unlock()
	if ok {
		store.ClearSnapshot(ctx)
	} else if r.snapshots != nil {
		_ = r.snapshots.Clear(ctx, id)
	}
}
