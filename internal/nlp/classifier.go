package nlp

import (
	"strings"

	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
)

// Confidence constants per classification rule
const (
	ConfidenceGreeting       = 0.9
	ConfidenceViewing        = 0.85
	ConfidencePrice          = 0.8
	ConfidenceLocation       = 0.8
	ConfidencePropertyInfo   = 0.9
	ConfidencePropertySearch = 0.7
	ConfidenceGeneral        = 0.5
	ConfidenceShortText      = 0.3
)

// shortTextLen is the length under which unmatched text is treated as small talk
const shortTextLen = 20

type classifyInput struct {
	text              string
	padded            string
	entities          domain.Entities
	hasActiveProperty bool
}

type intentRule struct {
	intent     domain.IntentType
	confidence float64
	match      func(in classifyInput) bool
}

// Classifier assigns one intent per message from an ordered rule table
type Classifier struct {
	rules []intentRule
}

// NewClassifier builds the rule table from the configured keyword sets
func NewClassifier(kw config.Keywords) *Classifier {
	greeting := NewVocabulary(kw.Greeting)
	viewing := NewVocabulary(kw.Viewing)
	price := NewVocabulary(kw.Price)
	location := NewVocabulary(kw.Location)
	property := NewVocabulary(kw.Property)

	return &Classifier{rules: []intentRule{
		{
			intent:     domain.IntentGeneralInquiry,
			confidence: ConfidenceGeneral,
			match:      func(in classifyInput) bool { return strings.TrimSpace(in.text) == "" },
		},
		{
			intent:     domain.IntentGreeting,
			confidence: ConfidenceGreeting,
			match:      func(in classifyInput) bool { return greeting.matchPadded(in.padded) },
		},
		{
			intent:     domain.IntentViewingRequest,
			confidence: ConfidenceViewing,
			match: func(in classifyInput) bool {
				return viewing.matchPadded(in.padded) && (in.hasActiveProperty || in.entities.HasProperty())
			},
		},
		{
			intent:     domain.IntentPriceInquiry,
			confidence: ConfidencePrice,
			match:      func(in classifyInput) bool { return price.matchPadded(in.padded) },
		},
		{
			intent:     domain.IntentLocationInquiry,
			confidence: ConfidenceLocation,
			match:      func(in classifyInput) bool { return location.matchPadded(in.padded) },
		},
		{
			intent:     domain.IntentPropertyInfo,
			confidence: ConfidencePropertyInfo,
			match: func(in classifyInput) bool {
				return in.entities.HasProperty() && !in.entities.PropertyFromContext
			},
		},
		{
			intent:     domain.IntentPropertySearch,
			confidence: ConfidencePropertySearch,
			match:      func(in classifyInput) bool { return property.matchPadded(in.padded) },
		},
		{
			intent:     domain.IntentGeneralInquiry,
			confidence: ConfidenceShortText,
			match:      func(in classifyInput) bool { return len(strings.TrimSpace(in.text)) < shortTextLen },
		},
	}}
}

// Classify never fails: unmatched text falls through to general_inquiry
func (c *Classifier) Classify(text string, entities domain.Entities, hasActiveProperty bool) domain.Intent {
	in := classifyInput{
		text:              text,
		padded:            pad(text),
		entities:          entities,
		hasActiveProperty: hasActiveProperty,
	}
	for _, r := range c.rules {
		if r.match(in) {
			return domain.Intent{Type: r.intent, Confidence: r.confidence, Entities: entities}
		}
	}
	return domain.Intent{Type: domain.IntentGeneralInquiry, Confidence: ConfidenceGeneral, Entities: entities}
}
