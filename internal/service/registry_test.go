package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/property-assistant/internal/domain"
)

func TestRegistry_AcquireCreatesOnce(t *testing.T) {
	r := NewRegistry(time.Minute)

	a := r.Acquire("s1")
	b := r.Acquire("s1")
	assert.Same(t, a, b)
	assert.Equal(t, domain.PhaseIdle, a.State().Phase)
	assert.Equal(t, 1, r.Len())

	r.Release(a)
	r.Release(b)
	assert.Equal(t, 0, a.refs)
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	now := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	r := NewRegistry(30 * time.Minute)
	r.now = func() time.Time { return now }

	idle := r.Acquire("idle")
	r.Release(idle)
	busy := r.Acquire("busy")
	fresh := r.Acquire("fresh")

	now = now.Add(20 * time.Minute)
	r.Release(fresh)

	now = now.Add(15 * time.Minute)
	evicted := r.Sweep()

	assert.Equal(t, []string{"idle"}, evicted)
	_, ok := r.Get("idle")
	assert.False(t, ok)
	_, ok = r.Get("busy")
	assert.True(t, ok, "sessions in use are never evicted")
	_, ok = r.Get("fresh")
	assert.True(t, ok)

	r.Release(busy)
	now = now.Add(time.Hour)
	assert.ElementsMatch(t, []string{"busy", "fresh"}, r.Sweep())
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_EvictedSessionStartsFresh(t *testing.T) {
	now := time.Now()
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }

	s := r.Acquire("s1")
	s.mu.Lock()
	s.state.Phase = domain.PhaseBrowsing
	s.mu.Unlock()
	r.Release(s)

	now = now.Add(2 * time.Minute)
	require.Len(t, r.Sweep(), 1)

	s2 := r.Acquire("s1")
	defer r.Release(s2)
	assert.NotSame(t, s, s2)
	assert.Equal(t, domain.PhaseIdle, s2.State().Phase)
}

func TestRegistry_ConcurrentAcquire(t *testing.T) {
	r := NewRegistry(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := r.Acquire("shared")
			r.Release(s)
		}()
	}
	wg.Wait()

	s, ok := r.Get("shared")
	require.True(t, ok)
	assert.Equal(t, 0, s.refs)
}

func TestSession_RecentUserTurns(t *testing.T) {
	s := &Session{}
	now := time.Now()
	s.appendHistory(10,
		domain.NewMessage("s", domain.RoleUser, "one", now),
		domain.NewMessage("s", domain.RoleAssistant, "reply", now),
		domain.NewMessage("s", domain.RoleUser, "two", now),
		domain.NewMessage("s", domain.RoleAssistant, "reply", now),
		domain.NewMessage("s", domain.RoleUser, "three", now),
	)

	assert.Equal(t, []string{"two", "three"}, s.recentUserTurns(2))
	assert.Equal(t, []string{"one", "two", "three"}, s.recentUserTurns(5))

	s.appendHistory(2, domain.NewMessage("s", domain.RoleUser, "four", now))
	assert.Len(t, s.history, 2)
	assert.Equal(t, []string{"three", "four"}, s.recentUserTurns(5))
}
