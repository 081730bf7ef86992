package dialogue

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/nlp"
)

// Event names what a transition did, so the reply can be rendered for it
type Event string

const (
	EventNone                 Event = "none"
	EventGreeted              Event = "greeted"
	EventPropertiesFound      Event = "properties_found"
	EventNoMatches            Event = "no_matches"
	EventViewingNeedsProperty Event = "viewing_needs_property"
	EventSlotsNeeded          Event = "slots_needed"
	EventPropertySwitched     Event = "property_switched"
	EventAside                Event = "aside"
	EventAwaitingConfirmation Event = "awaiting_confirmation"
	EventCorrection           Event = "correction"
	EventConfirmed            Event = "confirmed"
	EventCancelled            Event = "cancelled"
)

// Turn is everything the machine needs to know about one user message
type Turn struct {
	SessionID string
	Text      string
	Intent    domain.Intent
	// Named is the directory entry for Intent.Entities.PropertyName, if any
	Named *domain.Property
	// Matches are search results in catalog order
	Matches []domain.Property
}

// Result is the outcome of one transition
type Result struct {
	State domain.ConversationState
	Event Event
	// Booking is set only on the transition into Confirmed
	Booking *domain.ViewingRequest
}

// Machine is the dialogue transition function. It keeps no per-session
// data; callers own the state and pass it in on every turn.
type Machine struct {
	affirmative nlp.Vocabulary
	cancel      nlp.Vocabulary
	negation    nlp.Vocabulary
	newID       func() uuid.UUID
	now         func() time.Time
}

// Option customizes a Machine
type Option func(*Machine)

// WithClock sets the clock used to stamp viewing requests
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator sets the generator for viewing request IDs
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(m *Machine) { m.newID = newID }
}

// NewMachine creates a dialogue machine using the configured vocabulary
func NewMachine(vocab config.Vocab, opts ...Option) *Machine {
	m := &Machine{
		affirmative: nlp.NewVocabulary(vocab.Affirmative),
		cancel:      nlp.NewVocabulary(vocab.Cancel),
		negation:    nlp.NewVocabulary(vocab.Negation),
		newID:       uuid.New,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsAffirmative reports whether text confirms a pending booking. Affirmative
// phrases match anywhere in the text; negation and cancel words still veto.
func (m *Machine) IsAffirmative(text string) bool {
	return m.affirmative.Contains(text) && !m.negation.Match(text) && !m.cancel.Match(text)
}

// IsCancel reports whether text abandons the current flow
func (m *Machine) IsCancel(text string) bool {
	return m.cancel.Match(text)
}

// Transition computes the next state. It is total: every phase and intent
// yields exactly one next state.
func (m *Machine) Transition(prev domain.ConversationState, turn Turn) Result {
	st := settle(prev)

	switch st.Phase {
	case domain.PhaseIdle, domain.PhaseGreeting, domain.PhaseBrowsing:
		return m.chat(st, turn)
	case domain.PhaseCollectingSlots:
		return m.collecting(st, turn)
	case domain.PhaseAwaitingConfirmation:
		return m.awaiting(st, turn)
	default:
		return m.chat(domain.NewConversationState(), turn)
	}
}

// settle moves a terminal phase back into chat at the start of the next turn
func settle(st domain.ConversationState) domain.ConversationState {
	switch st.Phase {
	case domain.PhaseConfirmed:
		st.ResetBooking()
		if st.ActiveProperty != nil {
			st.Phase = domain.PhaseBrowsing
		} else {
			st.Phase = domain.PhaseIdle
		}
	case domain.PhaseCancelled:
		st.ResetBooking()
		st.ActiveProperty = nil
		st.Phase = domain.PhaseIdle
	}
	return st
}

func (m *Machine) chat(st domain.ConversationState, turn Turn) Result {
	if st.Phase == domain.PhaseBrowsing && m.IsCancel(turn.Text) {
		return cancelled(st)
	}

	switch turn.Intent.Type {
	case domain.IntentViewingRequest:
		target := st.ActiveProperty
		if turn.Named != nil && (!turn.Intent.Entities.PropertyFromContext || target == nil) {
			target = turn.Named
		}
		if target == nil {
			return Result{State: st, Event: EventViewingNeedsProperty}
		}
		if st.ActiveProperty == nil || st.ActiveProperty.ID != target.ID {
			p := *target
			st.ActiveProperty = &p
		}
		st.ResetBooking()
		st.RequestText = turn.Text
		mergeSlots(&st.Slots, turn.Intent.Entities)
		return m.afterCollect(st, EventSlotsNeeded)

	case domain.IntentPropertySearch, domain.IntentPropertyInfo:
		if len(turn.Matches) == 0 {
			return Result{State: st, Event: EventNoMatches}
		}
		p := turn.Matches[0]
		st.ActiveProperty = &p
		st.Phase = domain.PhaseBrowsing
		return Result{State: st, Event: EventPropertiesFound}

	case domain.IntentGreeting:
		if st.Phase == domain.PhaseIdle {
			st.Phase = domain.PhaseGreeting
		}
		return Result{State: st, Event: EventGreeted}
	}

	return Result{State: st, Event: EventNone}
}

func (m *Machine) collecting(st domain.ConversationState, turn Turn) Result {
	if m.IsCancel(turn.Text) {
		return cancelled(st)
	}
	if r, ok := m.switchProperty(st, turn); ok {
		return r
	}

	changed := mergeSlots(&st.Slots, turn.Intent.Entities)
	if st.Slots.Complete() && (changed || m.IsAffirmative(turn.Text)) {
		st.Phase = domain.PhaseAwaitingConfirmation
		return Result{State: st, Event: EventAwaitingConfirmation}
	}
	if !changed && isQuestion(turn.Intent.Type) {
		return Result{State: st, Event: EventAside}
	}
	return Result{State: st, Event: EventSlotsNeeded}
}

func (m *Machine) awaiting(st domain.ConversationState, turn Turn) Result {
	if m.IsCancel(turn.Text) {
		return cancelled(st)
	}
	if r, ok := m.switchProperty(st, turn); ok {
		return r
	}

	// New values re-echo the summary instead of confirming stale ones
	if mergeSlots(&st.Slots, turn.Intent.Entities) {
		return m.afterCollect(st, EventCorrection)
	}

	if m.IsAffirmative(turn.Text) && st.ActiveProperty != nil && st.Slots.Complete() {
		booking := m.buildRequest(st, turn.SessionID)
		st.ResetBooking()
		st.Phase = domain.PhaseConfirmed
		return Result{State: st, Event: EventConfirmed, Booking: booking}
	}

	st.Phase = domain.PhaseCollectingSlots
	return Result{State: st, Event: EventCorrection}
}

// switchProperty replaces the active property when the user names a
// different one mid-flow. Slots collected for the old property are dropped.
func (m *Machine) switchProperty(st domain.ConversationState, turn Turn) (Result, bool) {
	named := turn.Named
	if named == nil || turn.Intent.Entities.PropertyFromContext {
		return Result{}, false
	}
	if st.ActiveProperty != nil && st.ActiveProperty.ID == named.ID {
		return Result{}, false
	}

	p := *named
	st.ActiveProperty = &p
	st.ResetBooking()
	st.RequestText = turn.Text
	mergeSlots(&st.Slots, turn.Intent.Entities)
	return m.afterCollect(st, EventPropertySwitched), true
}

// afterCollect picks the phase once slots were merged: confirmation as soon
// as the required set is complete, otherwise keep collecting
func (m *Machine) afterCollect(st domain.ConversationState, pending Event) Result {
	if st.Slots.Complete() {
		st.Phase = domain.PhaseAwaitingConfirmation
		return Result{State: st, Event: EventAwaitingConfirmation}
	}
	st.Phase = domain.PhaseCollectingSlots
	return Result{State: st, Event: pending}
}

func (m *Machine) buildRequest(st domain.ConversationState, sessionID string) *domain.ViewingRequest {
	return &domain.ViewingRequest{
		ID:          m.newID(),
		SessionID:   sessionID,
		PropertyID:  st.ActiveProperty.ID,
		AgentID:     st.ActiveProperty.AgentID,
		ClientName:  st.Slots.Name,
		ClientPhone: st.Slots.Phone,
		ClientEmail: st.Slots.Email,
		Date:        st.Slots.Date,
		Time:        st.Slots.Time,
		Message:     st.RequestText,
		CreatedAt:   m.now(),
	}
}

func cancelled(st domain.ConversationState) Result {
	st.ResetBooking()
	st.ActiveProperty = nil
	st.Phase = domain.PhaseCancelled
	return Result{State: st, Event: EventCancelled}
}

// mergeSlots copies non-empty extracted values into s and reports whether
// anything changed. An empty extraction never clears a slot.
func mergeSlots(s *domain.Slots, e domain.Entities) bool {
	changed := false
	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&s.Name, e.Name)
	set(&s.Phone, e.Phone)
	set(&s.Email, e.Email)
	set(&s.Date, e.Date)
	set(&s.Time, e.Time)
	return changed
}

func isQuestion(t domain.IntentType) bool {
	switch t {
	case domain.IntentPriceInquiry, domain.IntentLocationInquiry,
		domain.IntentPropertySearch, domain.IntentPropertyInfo:
		return true
	}
	return false
}
