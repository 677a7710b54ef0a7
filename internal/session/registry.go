package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultIdleTTL = 2 * time.Hour

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry hosts live sessions by id and drops the ones left idle.
type Registry struct {
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	creating map[string]*sync.Mutex
}

func NewRegistry(deps Deps, idleTTL time.Duration) (*Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Registry{
		deps:     deps,
		idleTTL:  idleTTL,
		now:      now,
		sessions: map[string]*entry{},
		creating: map[string]*sync.Mutex{},
	}, nil
}

// NewID mints a session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID minted.
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// Get returns the live session for id, building it on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	if s, ok := r.touch(id); ok {
		return s, nil
	}

	// Builds for one id are serialized so a burst of first requests restores
	// the session once.
	lock := r.creationLock(id)
	lock.Lock()
	defer lock.Unlock()
	if s, ok := r.touch(id); ok {
		return s, nil
	}

	s, err := New(ctx, id, r.deps)

	r.mu.Lock()
	delete(r.creating, id)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.sessions[id] = &entry{session: s, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	r.deps.Metrics.SetSessions(n)
	return s, nil
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the idle TTL and returns how
// many went. Durable slots stay behind, so the next request restores the
// cart and wishlist. Ephemeral slots go with the session when Evicted says so.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []string
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if r.deps.Evicted != nil {
		for _, id := range evicted {
			r.deps.Evicted(ctx, id)
		}
	}
	removed := len(evicted)
	r.deps.Metrics.SetSessions(n)
	if removed > 0 {
		r.deps.Logger.Info(r.deps.Logger.WithFields(ctx, map[string]any{
			"removed": removed,
			"live":    n,
		}), "idle sessions swept")
	}
	return removed
}

func (r *Registry) touch(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.session, true
}

func (r *Registry) creationLock(id string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.creating[id]
	if !ok {
		lock = &sync.Mutex{}
		r.creating[id] = lock
	}
	return lock
}
