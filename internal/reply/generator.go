package reply

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/Rrens/property-assistant/internal/catalog"
	"github.com/Rrens/property-assistant/internal/dialogue"
	"github.com/Rrens/property-assistant/internal/domain"
)

// Picker chooses one of n phrasings. Tests pin it to get stable replies.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a function to Picker
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// RandomPicker picks uniformly at random
type RandomPicker struct{}

func (RandomPicker) Pick(n int) int { return rand.Intn(n) }

// FirstPicker always picks the first phrasing
var FirstPicker = PickerFunc(func(int) int { return 0 })

// Input is everything a reply is rendered from
type Input struct {
	Intent domain.Intent
	Event  dialogue.Event
	// State is the conversation state after the transition
	State   domain.ConversationState
	Booking *domain.ViewingRequest
	Named   *domain.Property
	Matches []domain.Property
	// Catalog is the full property list in catalog order
	Catalog []domain.Property
	Agents  map[int64]domain.Agent
}

// Generator renders replies. It performs no I/O.
type Generator struct {
	picker         Picker
	priceTolerance float64
}

// NewGenerator creates a reply generator. A nil picker selects at random.
func NewGenerator(picker Picker, priceTolerance float64) *Generator {
	if picker == nil {
		picker = RandomPicker{}
	}
	return &Generator{picker: picker, priceTolerance: priceTolerance}
}

// Render returns the reply for one processed turn
func (g *Generator) Render(in Input) string {
	switch in.Event {
	case dialogue.EventConfirmed:
		return g.confirmed(in)
	case dialogue.EventCancelled:
		return cancelledReply
	case dialogue.EventAwaitingConfirmation:
		return g.summary(in.State)
	case dialogue.EventSlotsNeeded:
		if in.Intent.Type == domain.IntentViewingRequest && in.State.ActiveProperty != nil {
			return g.viewingIntro(in.State)
		}
		return g.stillNeed(in.State)
	case dialogue.EventPropertySwitched:
		return fmt.Sprintf(switchedTmpl, in.State.ActiveProperty.Title) + "\n\n" + g.stillNeed(in.State)
	case dialogue.EventCorrection:
		if in.State.Slots.Complete() {
			return changeTmpl
		}
		return g.stillNeed(in.State)
	case dialogue.EventAside:
		return g.byIntent(in) + "\n\n" + g.stillNeed(in.State)
	case dialogue.EventViewingNeedsProperty:
		return fmt.Sprintf(viewingNeedsProperty, listLines(in.Catalog))
	}
	return g.byIntent(in)
}

func (g *Generator) byIntent(in Input) string {
	ent := in.Intent.Entities

	switch in.Intent.Type {
	case domain.IntentGreeting:
		return g.pick(greetings) + "\n\n" + greetingMenu

	case domain.IntentPropertySearch:
		switch len(in.Matches) {
		case 0:
			return fmt.Sprintf(noMatchTmpl, listLines(in.Catalog))
		case 1:
			return fmt.Sprintf(singleMatchTmpl, g.detail(in.Matches[0], in.Agents))
		}
		return fmt.Sprintf(multipleMatchTmpl, len(in.Matches), priceLines(in.Matches))

	case domain.IntentPropertyInfo:
		if p := g.subject(in); p != nil {
			return g.detail(*p, in.Agents)
		}
		return fmt.Sprintf(unknownPropertyTmpl, ent.PropertyName, listLines(in.Catalog))

	case domain.IntentPriceInquiry:
		return g.price(in)

	case domain.IntentLocationInquiry:
		return g.location(ent.Location, in.Catalog)
	}

	return g.pick(generalReplies) + "\n\n" + generalMenu
}

func (g *Generator) pick(options []string) string {
	i := g.picker.Pick(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}

// subject is the property a question is about: named in the message,
// otherwise the first search match
func (g *Generator) subject(in Input) *domain.Property {
	if in.Named != nil {
		return in.Named
	}
	if len(in.Matches) > 0 {
		return &in.Matches[0]
	}
	return nil
}

func (g *Generator) detail(p domain.Property, agents map[int64]domain.Agent) string {
	name, phone := "Available", "Available"
	if a, ok := agents[p.AgentID]; ok {
		name, phone = a.Name, a.Phone
	}
	return fmt.Sprintf(propertyDetailTmpl,
		p.Title, p.Location, p.Address, KES(p.Price), p.Bedrooms,
		bathrooms(p.Bathrooms), sqft(p.SizeSqft), p.Status, p.Description, name, phone,
	)
}

func (g *Generator) price(in Input) string {
	ent := in.Intent.Entities
	if in.Named != nil && !ent.PropertyFromContext && ent.PriceRange == nil {
		return fmt.Sprintf(propertyPriceTmpl, in.Named.Title, KES(in.Named.Price))
	}

	filter := domain.PropertyFilter{Location: ent.Location, PriceTolerance: g.priceTolerance}
	if ent.PriceRange != nil {
		filter.PriceTarget = *ent.PriceRange
	}

	var matched []domain.Property
	for _, p := range in.Catalog {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}

	if len(matched) == 0 {
		return g.priceAlternatives(filter.PriceTarget, in.Catalog)
	}
	return fmt.Sprintf(priceAnalysisTmpl, KES(catalog.Average(matched)), len(matched), priceLines(matched))
}

// priceAlternatives lists properties within half the target price, or the
// whole catalog when nothing is that close
func (g *Generator) priceAlternatives(target int64, all []domain.Property) string {
	var near []domain.Property
	if target > 0 {
		for _, p := range all {
			diff := p.Price - target
			if diff < 0 {
				diff = -diff
			}
			if float64(diff)/float64(target) < 0.5 {
				near = append(near, p)
			}
		}
	}
	if len(near) == 0 {
		near = all
	}
	return fmt.Sprintf(priceAlternativesTmpl, priceLines(near))
}

func (g *Generator) location(place string, all []domain.Property) string {
	if place == "" {
		return locationOverview(all)
	}

	filter := domain.PropertyFilter{Location: place}
	var matched []domain.Property
	for _, p := range all {
		if filter.Matches(p) {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return fmt.Sprintf(locationMissingTmpl, place, locationOverview(all))
	}

	low, high := priceBounds(matched)
	return fmt.Sprintf(locationSpecificTmpl,
		place, len(matched), KES(catalog.Average(matched)), KES(low), KES(high), bedroomLines(matched),
	)
}

func locationOverview(all []domain.Property) string {
	groups, order := catalog.ByLocation(all)
	sections := make([]string, 0, len(order))
	for _, loc := range order {
		props := groups[loc]
		sections = append(sections, fmt.Sprintf(locationOverviewTmpl,
			loc, len(props), KES(catalog.Average(props)), featuredTitle(props),
		))
	}
	return strings.Join(sections, "\n\n")
}

func featuredTitle(props []domain.Property) string {
	for _, p := range props {
		if p.Featured {
			return p.Title
		}
	}
	return props[0].Title
}

func (g *Generator) viewingIntro(st domain.ConversationState) string {
	p := st.ActiveProperty
	return fmt.Sprintf(viewingIntroTmpl, p.Title, p.Title, p.Address, KES(p.Price), missingLabels(st.Slots))
}

func (g *Generator) stillNeed(st domain.ConversationState) string {
	title := "this property"
	if st.ActiveProperty != nil {
		title = st.ActiveProperty.Title
	}
	if st.Slots.Complete() {
		return changeTmpl
	}
	return fmt.Sprintf(stillNeedTmpl, title, missingLabels(st.Slots))
}

func (g *Generator) summary(st domain.ConversationState) string {
	title := "this property"
	if st.ActiveProperty != nil {
		title = st.ActiveProperty.Title
	}
	s := st.Slots
	email := ""
	if s.Phone != "" && s.Email != "" {
		email = fmt.Sprintf("• **Email:** %s\n", s.Email)
	}
	return fmt.Sprintf(summaryTmpl, title, s.Name, s.Contact(), email, s.Date, s.Time)
}

func (g *Generator) confirmed(in Input) string {
	b := in.Booking
	if b == nil {
		return Fallback
	}
	title := "your selected property"
	if in.State.ActiveProperty != nil && in.State.ActiveProperty.ID == b.PropertyID {
		title = in.State.ActiveProperty.Title
	}
	contact := b.ClientPhone
	if contact == "" {
		contact = b.ClientEmail
	}
	return fmt.Sprintf(confirmedTmpl, title, b.Date, b.Time, contact)
}
