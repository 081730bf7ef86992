package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rrens/property-assistant/internal/domain"
)

// InboxService exposes agent notifications to the messaging surface
type InboxService struct {
	inbox  domain.Inbox
	agents domain.AgentResolver
}

// NewInboxService creates a new inbox service
func NewInboxService(inbox domain.Inbox, agents domain.AgentResolver) *InboxService {
	return &InboxService{inbox: inbox, agents: agents}
}

// List returns an agent's notifications, optionally only the unread ones
func (s *InboxService) List(ctx context.Context, agentID int64, unreadOnly bool) ([]domain.AgentNotification, error) {
	if _, err := s.agents.GetAgent(ctx, agentID); err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}

	list, err := s.inbox.ListByAgent(ctx, agentID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if list == nil {
		list = []domain.AgentNotification{}
	}
	return list, nil
}

// MarkRead flags one notification as read
func (s *InboxService) MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error {
	if err := s.inbox.MarkRead(ctx, agentID, id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
