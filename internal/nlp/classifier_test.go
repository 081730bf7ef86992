package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
)

func TestClassify(t *testing.T) {
	e := newTestExtractor()
	c := NewClassifier(config.Defaults().NLP.Keywords)

	tests := []struct {
		name       string
		text       string
		active     bool
		want       domain.IntentType
		confidence float64
	}{
		{"empty", "", false, domain.IntentGeneralInquiry, ConfidenceGeneral},
		{"greeting", "Hi", false, domain.IntentGreeting, ConfidenceGreeting},
		{"greeting phrase", "Good morning!", false, domain.IntentGreeting, ConfidenceGreeting},
		{"hi inside a word", "this Saturday", false, domain.IntentGeneralInquiry, ConfidenceShortText},
		{"hi inside a longer text", "This Saturday at 2pm", false, domain.IntentGeneralInquiry, ConfidenceGeneral},
		{"viewing with named property", "I want to view the Lakefront Villa", false, domain.IntentViewingRequest, ConfidenceViewing},
		{"viewing with active property", "can I schedule a visit?", true, domain.IntentViewingRequest, ConfidenceViewing},
		{"viewing without property", "can I schedule a visit?", false, domain.IntentGeneralInquiry, ConfidenceGeneral},
		{"price", "What's the average price?", false, domain.IntentPriceInquiry, ConfidencePrice},
		{"location", "Where are your listings located?", false, domain.IntentLocationInquiry, ConfidenceLocation},
		{"property info", "Tell me about the Lakefront Villa", false, domain.IntentPropertyInfo, ConfidencePropertyInfo},
		{"property search", "do you have any apartments or homes?", false, domain.IntentPropertySearch, ConfidencePropertySearch},
		{"long unmatched", "I would like some general information please", false, domain.IntentGeneralInquiry, ConfidenceGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, e.Extract(tt.text, nil), tt.active)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	e := newTestExtractor()
	c := NewClassifier(config.Defaults().NLP.Keywords)

	// Greeting is evaluated before price
	text := "hello, what is the price of the lakefront villa?"
	assert.Equal(t, domain.IntentGreeting, c.Classify(text, e.Extract(text, nil), false).Type)

	// Viewing is evaluated before price
	text = "book a viewing for the lakefront villa, what's the price?"
	assert.Equal(t, domain.IntentViewingRequest, c.Classify(text, e.Extract(text, nil), false).Type)

	// Price is evaluated before location
	text = "prices in Karen"
	assert.Equal(t, domain.IntentPriceInquiry, c.Classify(text, e.Extract(text, nil), false).Type)
}

func TestClassify_ContextNameIsNotPropertyInfo(t *testing.T) {
	e := newTestExtractor()
	c := NewClassifier(config.Defaults().NLP.Keywords)
	recent := []string{"Tell me about the Lakefront Villa", "Show me 4 bedroom homes"}

	text := recent[1]
	ent := e.Extract(text, recent[:1])
	assert.True(t, ent.PropertyFromContext)
	assert.Equal(t, domain.IntentPropertySearch, c.Classify(text, ent, true).Type)

	text = "And the Lakefront Villa?"
	ent = e.Extract(text, recent)
	assert.False(t, ent.PropertyFromContext)
	assert.Equal(t, domain.IntentPropertyInfo, c.Classify(text, ent, true).Type)
}

func TestClassify_IsTotal(t *testing.T) {
	e := newTestExtractor()
	c := NewClassifier(config.Defaults().NLP.Keywords)

	inputs := []string{
		"", " ", "?", "yes", "no", "🏠🏠🏠", strings.Repeat("x", 5000),
		"0712345678", "My name is John", "cancel", "\n\t",
	}
	for _, text := range inputs {
		for _, active := range []bool{false, true} {
			got := c.Classify(text, e.Extract(text, nil), active)
			assert.True(t, got.Type.IsValid(), "text %q", text)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		}
	}
}

func TestVocabulary_Match(t *testing.T) {
	v := NewVocabulary([]string{"go ahead", "yes", "don't"})

	assert.True(t, v.Match("Yes!"))
	assert.True(t, v.Match("please go  ahead"))
	assert.True(t, v.Match("I don't think so"))
	assert.False(t, v.Match("yesterday"))
	assert.False(t, v.Match("go there ahead"))
	assert.False(t, NewVocabulary(nil).Match("yes"))
}
