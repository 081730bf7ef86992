package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/property-assistant/internal/catalog"
	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/notify"
	"github.com/Rrens/property-assistant/internal/reply"
	"github.com/Rrens/property-assistant/internal/repository/memory"
)

var bookingTurns = []string{
	"I want to view the Lakefront Villa",
	"My name is John, phone 0712345678",
	"This Saturday at 2pm",
	"yes",
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), memory.NewSeededDirectoryRepository())
	require.NoError(t, err)
	return cat
}

func newTestService(t *testing.T, d Dispatcher, msgs domain.MessageRepository, store domain.SessionStore) *AssistantService {
	t.Helper()
	return NewAssistantService(config.Defaults(), NewRegistry(time.Minute), loadCatalog(t), d, msgs, store, reply.FirstPicker)
}

func TestAssistant_GreetingOnFreshSession(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)

	r, err := svc.Chat(context.Background(), "s1", "Hi")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentGreeting, r.Intent)
	assert.Equal(t, domain.PhaseGreeting, r.Phase)
	assert.Contains(t, r.Text, "What would you like to explore first?")
}

func TestAssistant_PropertyInfo(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)

	r, err := svc.Chat(context.Background(), "s1", "Tell me about the Lakefront Villa")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentPropertyInfo, r.Intent)
	assert.Equal(t, domain.PhaseBrowsing, r.Phase)
	assert.Contains(t, r.Text, "KES 250,000,000")
	assert.Contains(t, r.Text, "Sarah Kimani")
	assert.Contains(t, r.Text, "+254 712 345 678")
}

func TestAssistant_BookingEndToEnd(t *testing.T) {
	ctx := context.Background()
	cat := loadCatalog(t)
	inbox := memory.NewInboxRepository()
	d := notify.NewDispatcher(cat, cat, inbox, 8)
	svc := NewAssistantService(config.Defaults(), NewRegistry(time.Minute), cat, d, memory.NewMessageRepository(), nil, reply.FirstPicker)

	var last *Reply
	for _, text := range bookingTurns {
		r, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
		last = r
	}
	d.Close()

	assert.Equal(t, domain.PhaseConfirmed, last.Phase)
	require.NotNil(t, last.Booking)
	assert.Equal(t, int64(1), last.Booking.PropertyID)
	assert.Equal(t, "John", last.Booking.ClientName)
	assert.Equal(t, "0712345678", last.Booking.ClientPhone)
	assert.Equal(t, "Saturday", last.Booking.Date)
	assert.Equal(t, "2pm", last.Booking.Time)
	assert.Contains(t, last.Text, "Your viewing has been confirmed")

	list, err := inbox.ListByAgent(ctx, 1, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, last.Booking.ID, list[0].ViewingRequestID)
	assert.Equal(t, 1, inbox.Count())
}

func TestAssistant_BookingFollowsLastBrowsedProperty(t *testing.T) {
	ctx := context.Background()
	cat := loadCatalog(t)
	inbox := memory.NewInboxRepository()
	d := notify.NewDispatcher(cat, cat, inbox, 8)
	svc := NewAssistantService(config.Defaults(), NewRegistry(time.Minute), cat, d, memory.NewMessageRepository(), nil, reply.FirstPicker)

	turns := []string{
		"Tell me about the Lakefront Villa",
		"Show me 4 bedroom homes",
		"I'd like to book a viewing",
		"My name is John, phone 0712345678",
		"This Saturday at 2pm",
		"yes",
	}
	var last *Reply
	for _, text := range turns {
		r, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
		last = r
	}
	d.Close()

	assert.Equal(t, domain.PhaseConfirmed, last.Phase)
	require.NotNil(t, last.Booking)
	assert.Equal(t, int64(2), last.Booking.PropertyID)
	assert.Equal(t, int64(2), last.Booking.AgentID)

	list, err := inbox.ListByAgent(ctx, 2, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, last.Booking.ID, list[0].ViewingRequestID)

	list, err = inbox.ListByAgent(ctx, 1, false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAssistant_InflectedConfirmation(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Dispatch", mock.AnythingOfType("*domain.ViewingRequest")).Return(true).Once()
	svc := newTestService(t, d, memory.NewMessageRepository(), nil)
	ctx := context.Background()

	for _, text := range bookingTurns[:3] {
		_, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
	}
	r, err := svc.Chat(ctx, "s1", "Confirmed, thanks")
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseConfirmed, r.Phase)
	require.NotNil(t, r.Booking)
	d.AssertExpectations(t)
}

func TestAssistant_SummaryEchoesCollectedValues(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)

	var r *Reply
	var err error
	for _, text := range bookingTurns[:3] {
		r, err = svc.Chat(context.Background(), "s1", text)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.PhaseAwaitingConfirmation, r.Phase)
	for _, want := range []string{"Luxurious Lakefront Villa", "John", "0712345678", "Saturday", "2pm"} {
		assert.Contains(t, r.Text, want)
	}
}

func TestAssistant_NoWhileAwaitingConfirmation(t *testing.T) {
	d := new(MockDispatcher)
	svc := newTestService(t, d, memory.NewMessageRepository(), nil)
	ctx := context.Background()

	for _, text := range bookingTurns[:3] {
		_, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
	}

	r, err := svc.Chat(ctx, "s1", "no")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCollectingSlots, r.Phase)
	assert.Nil(t, r.Booking)

	sess, ok := svc.registry.Get("s1")
	require.True(t, ok)
	assert.Equal(t, domain.Slots{Name: "John", Phone: "0712345678", Date: "Saturday", Time: "2pm"}, sess.State().Slots)

	d.AssertNotCalled(t, "Dispatch", mock.Anything)
}

func TestAssistant_CancelDoesNotDispatch(t *testing.T) {
	d := new(MockDispatcher)
	svc := newTestService(t, d, memory.NewMessageRepository(), nil)
	ctx := context.Background()

	for _, text := range bookingTurns[:3] {
		_, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
	}

	r, err := svc.Chat(ctx, "s1", "cancel")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCancelled, r.Phase)
	d.AssertNotCalled(t, "Dispatch", mock.Anything)
}

func TestAssistant_AveragePrice(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)

	r, err := svc.Chat(context.Background(), "s1", "What's the average price?")
	require.NoError(t, err)

	assert.Equal(t, domain.IntentPriceInquiry, r.Intent)
	assert.Contains(t, r.Text, "KES 240,000,000")
}

func TestAssistant_ConfirmationDispatchesOnce(t *testing.T) {
	d := new(MockDispatcher)
	d.On("Dispatch", mock.AnythingOfType("*domain.ViewingRequest")).Return(true).Once()
	svc := newTestService(t, d, memory.NewMessageRepository(), nil)
	ctx := context.Background()

	for _, text := range bookingTurns {
		_, err := svc.Chat(ctx, "s1", text)
		require.NoError(t, err)
	}
	// A repeated "yes" after confirmation starts no second booking
	r, err := svc.Chat(ctx, "s1", "yes")
	require.NoError(t, err)
	assert.Nil(t, r.Booking)
	assert.Equal(t, domain.PhaseBrowsing, r.Phase)

	d.AssertNumberOfCalls(t, "Dispatch", 1)
}

func TestAssistant_ConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	cat := loadCatalog(t)
	inbox := memory.NewInboxRepository()
	d := notify.NewDispatcher(cat, cat, inbox, 4)
	svc := NewAssistantService(config.Defaults(), NewRegistry(time.Minute), cat, d, memory.NewMessageRepository(), nil, reply.FirstPicker)

	const sessions = 25
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for _, text := range bookingTurns {
				_, err := svc.Chat(ctx, id, text)
				assert.NoError(t, err)
			}
		}(fmt.Sprintf("session-%d", i))
	}
	wg.Wait()
	d.Close()

	assert.Equal(t, sessions, inbox.Count())
	assert.Equal(t, sessions, svc.registry.Len())
}

func TestAssistant_SameSessionMessagesAreSerialized(t *testing.T) {
	msgs := memory.NewMessageRepository()
	svc := newTestService(t, new(MockDispatcher), msgs, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Chat(ctx, "shared", "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := msgs.ListBySession(ctx, "shared", 0)
	require.NoError(t, err)
	require.Len(t, list, 40)
	// Every user message is directly followed by its reply
	for i := 0; i < len(list); i += 2 {
		assert.Equal(t, domain.RoleUser, list[i].Role)
		assert.Equal(t, domain.RoleAssistant, list[i+1].Role)
	}
}

func TestAssistant_EmptyInput(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)

	for _, text := range []string{"", "   ", "\n"} {
		r, err := svc.Chat(context.Background(), "s1", text)
		require.NoError(t, err)
		assert.NotEmpty(t, r.Text)
		assert.Equal(t, domain.IntentGeneralInquiry, r.Intent)
	}

	_, err := svc.Chat(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrEmptySessionID)
}

func TestAssistant_RecoversFromPanic(t *testing.T) {
	msgs := new(MockMessageRepository)
	msgs.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		panic("storage exploded")
	})
	svc := newTestService(t, new(MockDispatcher), msgs, nil)

	text, err := svc.HandleMessage(context.Background(), "s1", "Hi")
	require.NoError(t, err)
	assert.Equal(t, reply.Fallback, text)

	// The session stays usable
	sess, ok := svc.registry.Get("s1")
	require.True(t, ok)
	assert.Equal(t, 0, sess.refs)
}

func TestAssistant_TranscriptErrorsAreNotFatal(t *testing.T) {
	msgs := new(MockMessageRepository)
	msgs.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc := newTestService(t, new(MockDispatcher), msgs, nil)

	text, err := svc.HandleMessage(context.Background(), "s1", "Hi")
	require.NoError(t, err)
	assert.Contains(t, text, "What would you like to explore first?")
	msgs.AssertNumberOfCalls(t, "Create", 2)
}

func TestAssistant_RestoresSnapshot(t *testing.T) {
	cat := loadCatalog(t)
	villa, ok := cat.Property(1)
	require.True(t, ok)

	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s1").Return(&domain.SessionSnapshot{
		SessionID: "s1",
		State: domain.ConversationState{
			Phase:          domain.PhaseAwaitingConfirmation,
			ActiveProperty: &villa,
			Slots:          domain.Slots{Name: "John", Email: "john@example.com", Date: "Saturday", Time: "2pm"},
			RequestText:    "I want to view the Lakefront Villa",
		},
	}, nil).Once()
	store.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.SessionSnapshot) bool {
		return s.SessionID == "s1"
	})).Return(nil)

	d := new(MockDispatcher)
	d.On("Dispatch", mock.MatchedBy(func(req *domain.ViewingRequest) bool {
		return req.ClientEmail == "john@example.com" && req.AgentID == 1
	})).Return(true).Once()

	svc := NewAssistantService(config.Defaults(), NewRegistry(time.Minute), cat, d, memory.NewMessageRepository(), store, reply.FirstPicker)

	r, err := svc.Chat(context.Background(), "s1", "yes please")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseConfirmed, r.Phase)

	// Loaded only once per process
	_, err = svc.Chat(context.Background(), "s1", "thanks")
	require.NoError(t, err)

	store.AssertExpectations(t)
	d.AssertExpectations(t)
}

func TestAssistant_MissingSnapshotStartsFresh(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "s1").Return(nil, domain.ErrNotFound)
	store.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), store)

	r, err := svc.Chat(context.Background(), "s1", "Hi")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseGreeting, r.Phase)
	store.AssertNumberOfCalls(t, "Save", 1)
}

func TestAssistant_Transcript(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), memory.NewMessageRepository(), nil)
	ctx := context.Background()

	id := svc.CreateSession(ctx)
	require.NotEmpty(t, id)

	_, err := svc.Chat(ctx, id, "Hi")
	require.NoError(t, err)

	list, err := svc.Transcript(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Hi", list[0].Content)
	assert.Equal(t, domain.IntentGreeting, list[0].Intent)
	assert.Equal(t, domain.RoleAssistant, list[1].Role)
}

func TestAssistant_TranscriptFromSessionHistory(t *testing.T) {
	svc := newTestService(t, new(MockDispatcher), nil, nil)
	ctx := context.Background()

	_, err := svc.Transcript(ctx, "unknown", 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Chat(ctx, "s1", "Hi")
	require.NoError(t, err)

	list, err := svc.Transcript(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.RoleAssistant, list[0].Role)
}
