package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Rrens/property-assistant/internal/domain"
)

// MockDispatcher mocks the Dispatcher interface
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(req *domain.ViewingRequest) bool {
	args := m.Called(req)
	return args.Bool(0)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

// MockSessionStore mocks the SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionSnapshot), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, snapshot *domain.SessionSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockInbox mocks the Inbox interface
type MockInbox struct {
	mock.Mock
}

func (m *MockInbox) Append(ctx context.Context, n *domain.AgentNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockInbox) ListByAgent(ctx context.Context, agentID int64, unreadOnly bool) ([]domain.AgentNotification, error) {
	args := m.Called(ctx, agentID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AgentNotification), args.Error(1)
}

func (m *MockInbox) MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error {
	args := m.Called(ctx, agentID, id)
	return args.Error(0)
}
