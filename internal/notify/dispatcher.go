package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/domain"
)

const deliverTimeout = 10 * time.Second

// PropertyLookup resolves a property by ID
type PropertyLookup interface {
	Property(id int64) (domain.Property, bool)
}

// Dispatcher delivers one agent notification per confirmed viewing request.
// Delivery runs on a worker goroutine and never blocks the caller.
type Dispatcher struct {
	agents     domain.AgentResolver
	properties PropertyLookup
	inbox      domain.Inbox

	queue chan *domain.ViewingRequest
	// seen holds request IDs between Dispatch and the end of delivery
	seen sync.Map
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	newID func() uuid.UUID
	now   func() time.Time
}

// NewDispatcher creates a dispatcher and starts its worker
func NewDispatcher(agents domain.AgentResolver, properties PropertyLookup, inbox domain.Inbox, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	d := &Dispatcher{
		agents:     agents,
		properties: properties,
		inbox:      inbox,
		queue:      make(chan *domain.ViewingRequest, queueSize),
		newID:      uuid.New,
		now:        time.Now,
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Dispatch schedules delivery for req. It returns false while a delivery
// for the same request ID is still pending. Once delivery finishes the ID
// is forgotten and the inbox's unique viewing_request_id absorbs replays.
func (d *Dispatcher) Dispatch(req *domain.ViewingRequest) bool {
	if req == nil {
		return false
	}
	if _, loaded := d.seen.LoadOrStore(req.ID, struct{}{}); loaded {
		log.Debug().Str("viewing_request_id", req.ID.String()).Msg("Viewing request already dispatched")
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.deliver(req)
		return true
	}

	select {
	case d.queue <- req:
	default:
		// Queue full: deliver out of band rather than drop or block the reply
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.deliver(req)
		}()
	}
	return true
}

// Close stops accepting queued work and waits for pending deliveries
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for req := range d.queue {
		d.deliver(req)
	}
}

func (d *Dispatcher) deliver(req *domain.ViewingRequest) {
	defer d.seen.Delete(req.ID)

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	logger := log.With().
		Str("viewing_request_id", req.ID.String()).
		Int64("property_id", req.PropertyID).
		Int64("agent_id", req.AgentID).
		Logger()

	agent, err := d.agents.GetAgent(ctx, req.AgentID)
	if err != nil || agent == nil {
		logger.Warn().Err(err).Msg("Dropping viewing notification: agent could not be resolved")
		return
	}

	property, ok := d.properties.Property(req.PropertyID)
	if !ok {
		property = domain.Property{ID: req.PropertyID, Title: fmt.Sprintf("property #%d", req.PropertyID)}
	}

	n := Compose(req, agent, property, d.newID(), d.now())
	if err := d.inbox.Append(ctx, n); err != nil {
		logger.Error().Err(err).Msg("Failed to append viewing notification")
		return
	}

	logger.Info().Str("agent", agent.Name).Msg("Viewing notification delivered")
}

// Compose builds the inbox notification for a viewing request
func Compose(req *domain.ViewingRequest, agent *domain.Agent, property domain.Property, id uuid.UUID, now time.Time) *domain.AgentNotification {
	message := req.Message
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("Viewing request for %s in %s", property.Title, property.Location)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New viewing request for %s", property.Title)
	if property.Location != "" {
		fmt.Fprintf(&b, " (%s)", property.Location)
	}
	fmt.Fprintf(&b, "\nRequested: %s at %s", req.Date, req.Time)
	fmt.Fprintf(&b, "\nClient: %s", req.ClientName)
	if req.ClientPhone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", req.ClientPhone)
	}
	if req.ClientEmail != "" {
		fmt.Fprintf(&b, "\nEmail: %s", req.ClientEmail)
	}
	fmt.Fprintf(&b, "\nMessage: %s", message)

	return &domain.AgentNotification{
		ID:               id,
		SenderID:         domain.SystemSenderID,
		ReceiverID:       agent.ID,
		Content:          b.String(),
		PropertyID:       req.PropertyID,
		ViewingRequestID: req.ID,
		ClientInfo: domain.ClientInfo{
			Name:    req.ClientName,
			Email:   req.ClientEmail,
			Phone:   req.ClientPhone,
			Message: message,
		},
		Read:      false,
		CreatedAt: now,
	}
}
