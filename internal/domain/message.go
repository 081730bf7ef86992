package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message represents one chat turn in a session
type Message struct {
	ID        uuid.UUID   `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Intent    IntentType  `json:"intent,omitempty"` // Empty for assistant messages
	CreatedAt time.Time   `json:"created_at"`
}

// NewMessage creates a message stamped with a fresh ID
func NewMessage(sessionID string, role MessageRole, content string, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: now,
	}
}

// MessageRepository defines the interface for transcript storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Message, error)
}
