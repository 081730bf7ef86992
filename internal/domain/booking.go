package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SystemSenderID marks notifications produced by the assistant
const SystemSenderID = "system"

// ViewingRequest is built once, at the confirmed transition, and never mutated
type ViewingRequest struct {
	ID          uuid.UUID `json:"id"`
	SessionID   string    `json:"session_id"`
	PropertyID  int64     `json:"property_id"`
	AgentID     int64     `json:"agent_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone,omitempty"`
	ClientEmail string    `json:"client_email,omitempty"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClientInfo carries the contact fields of a viewing request
type ClientInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// AgentNotification is appended to an agent's inbox, one per viewing request
type AgentNotification struct {
	ID               uuid.UUID  `json:"id"`
	SenderID         string     `json:"sender_id"`
	ReceiverID       int64      `json:"receiver_id"`
	Content          string     `json:"content"`
	PropertyID       int64      `json:"property_id"`
	ViewingRequestID uuid.UUID  `json:"viewing_request_id"`
	ClientInfo       ClientInfo `json:"client_info"`
	Read             bool       `json:"read"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Inbox defines the interface for agent notification storage
type Inbox interface {
	Append(ctx context.Context, notification *AgentNotification) error
	ListByAgent(ctx context.Context, agentID int64, unreadOnly bool) ([]AgentNotification, error)
	MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error
}
