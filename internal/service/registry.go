package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/domain"
)

// Session is one conversation. Its fields are guarded by mu; only one
// message per session is processed at a time.
type Session struct {
	ID string

	mu       sync.Mutex
	state    domain.ConversationState
	history  []domain.Message
	restored bool

	// guarded by Registry.mu
	refs     int
	lastSeen time.Time
}

// State returns a copy of the session's conversation state
func (s *Session) State() domain.ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// recentUserTurns returns up to n earlier user messages, oldest first
func (s *Session) recentUserTurns(n int) []string {
	var turns []string
	for i := len(s.history) - 1; i >= 0 && len(turns) < n; i-- {
		if s.history[i].Role == domain.RoleUser {
			turns = append(turns, s.history[i].Content)
		}
	}
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns
}

func (s *Session) appendHistory(limit int, msgs ...domain.Message) {
	s.history = append(s.history, msgs...)
	if limit > 0 && len(s.history) > limit {
		s.history = append([]domain.Message(nil), s.history[len(s.history)-limit:]...)
	}
}

// Registry maps session IDs to sessions and evicts idle ones
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry evicting sessions idle for longer than ttl
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Acquire returns the session for id, creating it on first use, and marks
// it in use so the sweeper leaves it alone until Release
func (r *Registry) Acquire(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &Session{ID: id, state: domain.NewConversationState()}
		r.sessions[id] = s
	}
	s.refs++
	s.lastSeen = r.now()
	return s
}

// Release marks the end of one use of s
func (r *Registry) Release(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.refs--
	s.lastSeen = r.now()
}

// Get returns the session for id without creating it
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns their IDs
func (r *Registry) Sweep() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	var evicted []string
	for id, s := range r.sessions {
		if s.refs > 0 || s.lastSeen.After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		evicted = append(evicted, id)
	}
	return evicted
}

// Run sweeps idle sessions every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("ttl", r.ttl).Dur("interval", interval).Msg("Session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Session sweeper stopped")
			return
		case <-ticker.C:
			if evicted := r.Sweep(); len(evicted) > 0 {
				log.Debug().Int("evicted", len(evicted)).Int("live", r.Len()).Msg("Evicted idle sessions")
			}
		}
	}
}
