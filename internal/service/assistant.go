package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/catalog"
	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/dialogue"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/nlp"
	"github.com/Rrens/property-assistant/internal/reply"
)

// ErrEmptySessionID is returned when a message arrives without a session
var ErrEmptySessionID = errors.New("session id is required")

// Dispatcher hands confirmed viewing requests to the agent inbox
type Dispatcher interface {
	Dispatch(req *domain.ViewingRequest) bool
}

// Reply is the outcome of one processed message
type Reply struct {
	Text    string                 `json:"reply"`
	Phase   domain.Phase           `json:"phase"`
	Intent  domain.IntentType      `json:"intent"`
	Booking *domain.ViewingRequest `json:"booking,omitempty"`
}

// AssistantService runs the message pipeline:
// extract, classify, transition, render, dispatch
type AssistantService struct {
	registry   *Registry
	catalog    *catalog.Catalog
	extractor  *nlp.Extractor
	classifier *nlp.Classifier
	machine    *dialogue.Machine
	replies    *reply.Generator
	dispatcher Dispatcher
	messages   domain.MessageRepository
	store      domain.SessionStore

	historyLimit   int
	contextTurns   int
	priceTolerance float64
	now            func() time.Time
}

// NewAssistantService creates a new assistant service. store may be nil.
func NewAssistantService(
	cfg *config.Config,
	registry *Registry,
	cat *catalog.Catalog,
	dispatcher Dispatcher,
	messages domain.MessageRepository,
	store domain.SessionStore,
	picker reply.Picker,
) *AssistantService {
	return &AssistantService{
		registry:       registry,
		catalog:        cat,
		extractor:      nlp.NewExtractor(cfg.NLP, cat),
		classifier:     nlp.NewClassifier(cfg.NLP.Keywords),
		machine:        dialogue.NewMachine(cfg.NLP.Vocabulary),
		replies:        reply.NewGenerator(picker, cfg.NLP.PriceTolerance),
		dispatcher:     dispatcher,
		messages:       messages,
		store:          store,
		historyLimit:   cfg.Assistant.HistoryLimit,
		contextTurns:   cfg.Assistant.ContextTurns,
		priceTolerance: cfg.NLP.PriceTolerance,
		now:            time.Now,
	}
}

// HandleMessage processes one user message and returns the reply text
func (s *AssistantService) HandleMessage(ctx context.Context, sessionID, text string) (string, error) {
	r, err := s.Chat(ctx, sessionID, text)
	if err != nil {
		return "", err
	}
	return r.Text, nil
}

// Chat processes one user message. Messages for the same session are
// handled one at a time; different sessions run concurrently.
func (s *AssistantService) Chat(ctx context.Context, sessionID, text string) (res *Reply, err error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySessionID
	}

	sess := s.registry.Acquire(sessionID)
	defer s.registry.Release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("session_id", sessionID).
				Msg("Recovered from panic while handling message")
			res = &Reply{Text: reply.Fallback, Phase: sess.state.Phase, Intent: domain.IntentGeneralInquiry}
			err = nil
		}
	}()

	s.restore(ctx, sess)

	ent := s.extractor.Extract(text, sess.recentUserTurns(s.contextTurns))
	intent := s.classifier.Classify(text, ent, sess.state.ActiveProperty != nil)

	turn := dialogue.Turn{SessionID: sessionID, Text: text, Intent: intent}
	if ent.PropertyName != "" {
		if p, err := s.catalog.FindPropertyByName(ctx, ent.PropertyName); err == nil {
			turn.Named = p
		}
	}
	turn.Matches = s.matches(ctx, turn)

	result := s.machine.Transition(sess.state, turn)

	out := s.replies.Render(reply.Input{
		Intent:  intent,
		Event:   result.Event,
		State:   result.State,
		Booking: result.Booking,
		Named:   turn.Named,
		Matches: turn.Matches,
		Catalog: s.catalog.Properties(),
		Agents:  s.catalog.Agents(),
	})

	sess.state = result.State

	now := s.now()
	userMsg := domain.NewMessage(sessionID, domain.RoleUser, text, now)
	userMsg.Intent = intent.Type
	botMsg := domain.NewMessage(sessionID, domain.RoleAssistant, out, now)
	sess.appendHistory(s.historyLimit, userMsg, botMsg)

	// The reply is final at this point; delivery cannot change it
	if result.Booking != nil {
		s.dispatcher.Dispatch(result.Booking)
	}

	s.persist(ctx, sess, userMsg, botMsg)

	log.Debug().
		Str("session_id", sessionID).
		Str("intent", string(intent.Type)).
		Str("event", string(result.Event)).
		Str("phase", string(result.State.Phase)).
		Msg("Message handled")

	return &Reply{
		Text:    out,
		Phase:   result.State.Phase,
		Intent:  intent.Type,
		Booking: result.Booking,
	}, nil
}

// matches resolves search results for the intents that browse the catalog
func (s *AssistantService) matches(ctx context.Context, turn dialogue.Turn) []domain.Property {
	switch turn.Intent.Type {
	case domain.IntentPropertyInfo:
		if turn.Named != nil {
			return []domain.Property{*turn.Named}
		}
	case domain.IntentPropertySearch:
		filter := turn.Intent.Entities.Filter(s.priceTolerance)
		if filter.IsEmpty() {
			return s.catalog.Properties()
		}
		found, err := s.catalog.FindPropertiesByFilter(ctx, filter)
		if err != nil {
			log.Warn().Err(err).Msg("Property search failed")
			return nil
		}
		return found
	}
	return nil
}

// restore loads a persisted snapshot the first time a session is used in
// this process
func (s *AssistantService) restore(ctx context.Context, sess *Session) {
	if sess.restored {
		return
	}
	sess.restored = true

	if s.store == nil {
		return
	}
	snap, err := s.store.Load(ctx, sess.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to load session snapshot")
		}
		return
	}

	sess.state = snap.State
	sess.history = snap.History
	if p := sess.state.ActiveProperty; p != nil {
		if fresh, ok := s.catalog.Property(p.ID); ok {
			sess.state.ActiveProperty = &fresh
		}
	}
}

func (s *AssistantService) persist(ctx context.Context, sess *Session, msgs ...domain.Message) {
	if s.messages != nil {
		for i := range msgs {
			if err := s.messages.Create(ctx, &msgs[i]); err != nil {
				log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to save chat message")
			}
		}
	}

	if s.store != nil {
		snap := &domain.SessionSnapshot{
			SessionID: sess.ID,
			State:     sess.state,
			History:   sess.history,
			UpdatedAt: s.now(),
		}
		if err := s.store.Save(ctx, snap); err != nil {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to save session snapshot")
		}
	}
}

// CreateSession registers a new empty session and returns its ID
func (s *AssistantService) CreateSession(ctx context.Context) string {
	sess := s.registry.Acquire(uuid.NewString())
	s.registry.Release(sess)
	return sess.ID
}

// Transcript returns the most recent messages of a session, oldest first
func (s *AssistantService) Transcript(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 || limit > s.historyLimit {
		limit = s.historyLimit
	}

	if s.messages != nil {
		msgs, err := s.messages.ListBySession(ctx, sessionID, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		return msgs, nil
	}

	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := sess.history
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]domain.Message(nil), history...), nil
}
