// Package fields translates a step identifier (and optional upstream
// selection id) into an ordered list of field descriptors fetched from the
// generation backend.
package fields

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/joaolucasdevmath/maip-campaign-builder/internal/briefing"
)

// ErrSuperseded is returned when a fetch completed but a newer fetch for the
// same session and step was issued while it was in flight. The stale result
// must not be applied.
var ErrSuperseded = errors.New("field fetch superseded by a newer request")

// Fetcher is the backend surface the loader needs.
type Fetcher interface {
	StepFields(ctx context.Context, step int) ([]briefing.FieldDescriptor, error)
	StepFieldsFor(ctx context.Context, step int, sourceBaseID string) ([]briefing.FieldDescriptor, error)
}

type fetchKey struct {
	sessionID string
	step      int
}

// Loader fetches descriptor lists and guards against out-of-order responses.
// Every fetch for a (session, step) pair takes a monotonically increasing
// generation; when the backend responds, the result is applied only if no
// newer generation was issued in the meantime. Changing the dependency id
// re-requests; responses for a superseded dependency are dropped.
type Loader struct {
	fetcher Fetcher

	mu          sync.Mutex
	generations map[fetchKey]uint64
}

// NewLoader creates a loader over the given backend fetcher.
func NewLoader(fetcher Fetcher) *Loader {
	return &Loader{
		fetcher:     fetcher,
		generations: make(map[fetchKey]uint64),
	}
}

// Fetch retrieves the descriptors for a step. dependencyID is the upstream
// selection (source base id) for dependent steps, empty otherwise. An empty
// descriptor list means "no fields" and is not an error.
func (l *Loader) Fetch(ctx context.Context, sessionID string, step int, dependencyID string) ([]briefing.FieldDescriptor, error) {
	key := fetchKey{sessionID: sessionID, step: step}

	l.mu.Lock()
	l.generations[key]++
	gen := l.generations[key]
	l.mu.Unlock()

	var (
		descriptors []briefing.FieldDescriptor
		err         error
	)
	if dependencyID != "" {
		descriptors, err = l.fetcher.StepFieldsFor(ctx, step, dependencyID)
	} else {
		descriptors, err = l.fetcher.StepFields(ctx, step)
	}

	l.mu.Lock()
	latest := l.generations[key]
	l.mu.Unlock()
	if gen != latest {
		log.Printf("FieldLoader: dropping stale response for session %s step %d (gen %d, latest %d)",
			sessionID, step, gen, latest)
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	return descriptors, nil
}

// Forget drops the generation bookkeeping for a session, e.g. after reset.
func (l *Loader) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.generations {
		if key.sessionID == sessionID {
			delete(l.generations, key)
		}
	}
}
