package memory

import (
	"context"
	"sync"

	"github.com/Rrens/property-assistant/internal/domain"
)

// MessageRepository keeps chat transcripts in memory
type MessageRepository struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Message
}

// NewMessageRepository creates an empty transcript store
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{sessions: make(map[string][]domain.Message)}
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[msg.SessionID] = append(r.sessions[msg.SessionID], *msg)
	return nil
}

// ListBySession returns the most recent messages, oldest first
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := r.sessions[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]domain.Message(nil), msgs...), nil
}
