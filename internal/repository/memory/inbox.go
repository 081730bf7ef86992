package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Rrens/property-assistant/internal/domain"
)

// InboxRepository keeps agent notifications in memory
type InboxRepository struct {
	mu            sync.RWMutex
	notifications []domain.AgentNotification
	byRequest     map[uuid.UUID]struct{}
}

// NewInboxRepository creates an empty inbox
func NewInboxRepository() *InboxRepository {
	return &InboxRepository{byRequest: make(map[uuid.UUID]struct{})}
}

// Append stores a notification. A second notification for the same
// viewing request is ignored.
func (r *InboxRepository) Append(ctx context.Context, n *domain.AgentNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRequest[n.ViewingRequestID]; ok {
		return nil
	}
	r.byRequest[n.ViewingRequestID] = struct{}{}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *InboxRepository) ListByAgent(ctx context.Context, agentID int64, unreadOnly bool) ([]domain.AgentNotification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []domain.AgentNotification
	for _, n := range r.notifications {
		if n.ReceiverID != agentID || (unreadOnly && n.Read) {
			continue
		}
		list = append(list, n)
	}
	return list, nil
}

func (r *InboxRepository) MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].ReceiverID == agentID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

// Count returns the number of stored notifications
func (r *InboxRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notifications)
}
