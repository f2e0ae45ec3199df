package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/playperu/ruleta/internal/ruleta"
)

// Registry keeps one Session per owner.
type Registry struct {
	opts     Options
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Get returns the owner's session, creating it and loading its custom
// questions on first use. A failed first load is reported through the
// session snapshot, not as an error.
func (r *Registry) Get(ctx context.Context, owner ruleta.Owner) *Session {
	key := owner.Key()

	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	// Double-check after acquiring write lock.
	if s, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return s
	}
	s = NewSession(owner, r.opts)
	r.sessions[key] = s
	r.mu.Unlock()

	r.opts.Logger.Info("game session started", "owner", key)
	if err := s.Refresh(ctx); err != nil {
		r.opts.Logger.Warn("initial question load failed", "owner", key, "error", err)
	}
	return s
}

// Lookup returns the owner's session without creating one.
func (r *Registry) Lookup(owner ruleta.Owner) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[owner.Key()]
	return s, ok
}

// End stops and forgets the owner's session. It reports whether one existed.
func (r *Registry) End(owner ruleta.Owner) bool {
	key := owner.Key()

	r.mu.Lock()
	s, ok := r.sessions[key]
	delete(r.sessions, key)
	r.mu.Unlock()

	if ok {
		s.End()
		r.opts.Logger.Info("game session ended", "owner", key)
	}
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.sessions {
		s.End()
		delete(r.sessions, key)
	}
	return nil
}
