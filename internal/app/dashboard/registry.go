package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps one Session per user.
type Registry struct {
	loader *Loader
	log    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry whose sessions share loader.
func NewRegistry(loader *Loader, logger *zap.Logger) *Registry {
	return &Registry{
		loader:   loader,
		log:      logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns userID's session, creating it on first use. A closed session
// is replaced.
func (r *Registry) Get(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok && !s.Closed() {
		return s
	}
	s := NewSession(r.loader, r.log.With(zap.String("user_id", userID)))
	r.sessions[userID] = s
	return s
}

// Drop closes and forgets userID's session (sign-out).
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseIdle closes sessions unused for longer than threshold.
func (r *Registry) CloseIdle(_ context.Context, threshold time.Duration) (int, error) {
	cutoff := r.loader.now().Add(-threshold)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	return len(idle), nil
}

// CloseAll closes every session. Used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
