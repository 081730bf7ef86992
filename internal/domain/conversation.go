package domain

import (
	"context"
	"time"
)

// Phase is the dialogue state of a session
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseGreeting             Phase = "greeting"
	PhaseBrowsing             Phase = "browsing"
	PhaseCollectingSlots      Phase = "collecting_slots"
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
	PhaseConfirmed            Phase = "confirmed"
	PhaseCancelled            Phase = "cancelled"
)

// IsTerminal reports whether the phase ends a booking flow
func (p Phase) IsTerminal() bool {
	return p == PhaseConfirmed || p == PhaseCancelled
}

// InBooking reports whether a booking flow is in progress
func (p Phase) InBooking() bool {
	return p == PhaseCollectingSlots || p == PhaseAwaitingConfirmation
}

// Slots holds the booking details collected so far
type Slots struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
}

// Contact returns the preferred contact detail, phone first
func (s Slots) Contact() string {
	if s.Phone != "" {
		return s.Phone
	}
	return s.Email
}

// Complete reports whether {name, phone or email, date, time} are all set
func (s Slots) Complete() bool {
	return s.Name != "" && s.Contact() != "" && s.Date != "" && s.Time != ""
}

// Missing returns the required slots that are still empty, in prompt order
func (s Slots) Missing() []string {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Contact() == "" {
		missing = append(missing, "contact")
	}
	if s.Date == "" {
		missing = append(missing, "date")
	}
	if s.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}

// IsEmpty reports whether no slot has been collected
func (s Slots) IsEmpty() bool {
	return s == Slots{}
}

// ConversationState is the per-session dialogue state
type ConversationState struct {
	Phase          Phase     `json:"phase"`
	ActiveProperty *Property `json:"active_property,omitempty"`
	Slots          Slots     `json:"slots"`
	// RequestText is the message that started the current booking flow
	RequestText string `json:"request_text,omitempty"`
}

// NewConversationState returns the state of a fresh session
func NewConversationState() ConversationState {
	return ConversationState{Phase: PhaseIdle}
}

// ResetBooking clears the booking fields and keeps the active property
func (s *ConversationState) ResetBooking() {
	s.Slots = Slots{}
	s.RequestText = ""
}

// SessionSnapshot is the persisted form of a session
type SessionSnapshot struct {
	SessionID string            `json:"session_id"`
	State     ConversationState `json:"state"`
	History   []Message         `json:"history"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SessionStore persists session snapshots so a session survives eviction or restart
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*SessionSnapshot, error)
	Save(ctx context.Context, snapshot *SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}
