package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/property-assistant/internal/config"
)

type staticTitles []string

func (s staticTitles) Titles() []string { return s }

var catalogTitles = staticTitles{
	"Luxurious Lakefront Villa",
	"Modern Penthouse in Westlands",
	"Elegant Colonial Estate in Karen",
}

func newTestExtractor() *Extractor {
	return NewExtractor(config.Defaults().NLP, catalogTitles)
}

func TestExtract_PropertyName(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"partial title", "Tell me about the Lakefront Villa", "Luxurious Lakefront Villa"},
		{"case insensitive", "what about the MODERN PENTHOUSE in westlands?", "Modern Penthouse in Westlands"},
		{"below threshold", "properties in Westlands", ""},
		{"no title words", "hello there", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent := e.Extract(tt.text, nil)
			assert.Equal(t, tt.want, ent.PropertyName)
			assert.False(t, ent.PropertyFromContext)
		})
	}
}

func TestExtract_PropertyNameFromContext(t *testing.T) {
	e := newTestExtractor()

	ent := e.Extract("can I see it on Saturday?", []string{
		"Tell me about the Lakefront Villa",
		"and the colonial estate in Karen?",
	})
	assert.Equal(t, "Elegant Colonial Estate in Karen", ent.PropertyName)
	assert.True(t, ent.PropertyFromContext)

	// Current text wins over context
	ent = e.Extract("the lakefront villa please", []string{"the colonial estate in Karen"})
	assert.Equal(t, "Luxurious Lakefront Villa", ent.PropertyName)
	assert.False(t, ent.PropertyFromContext)
}

func TestExtract_Location(t *testing.T) {
	e := newTestExtractor()

	assert.Equal(t, "Karen", e.Extract("anything in karen?", nil).Location)
	// Gazetteer order decides between two places
	assert.Equal(t, "Westlands", e.Extract("Nairobi or Westlands", nil).Location)
	assert.Empty(t, e.Extract("somewhere quiet", nil).Location)
}

func TestExtract_PriceAndBedrooms(t *testing.T) {
	e := newTestExtractor()

	ent := e.Extract("a 4 bedroom house around 120 million", nil)
	require.NotNil(t, ent.PriceRange)
	assert.Equal(t, int64(120_000_000), *ent.PriceRange)
	require.NotNil(t, ent.Bedrooms)
	assert.Equal(t, 4, *ent.Bedrooms)

	ent = e.Extract("budget 2.5m", nil)
	require.NotNil(t, ent.PriceRange)
	assert.Equal(t, int64(2_500_000), *ent.PriceRange)

	ent = e.Extract("rent of 500k, 3-bed", nil)
	require.NotNil(t, ent.PriceRange)
	assert.Equal(t, int64(500_000), *ent.PriceRange)
	require.NotNil(t, ent.Bedrooms)
	assert.Equal(t, 3, *ent.Bedrooms)

	ent = e.Extract("see you at 2pm", nil)
	assert.Nil(t, ent.PriceRange)
	assert.Nil(t, ent.Bedrooms)
}

func TestExtract_Date(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"This Saturday at 2pm", "Saturday"},
		{"tomorrow morning", "tomorrow"},
		{"sometime this weekend", "this weekend"},
		{"next  week works", "next week"},
		{"on 12/06/2025", "12/06/2025"},
		{"on 12 june", "12 June"},
		// Weekday beats the numeric rule
		{"friday 12/06/2025", "Friday"},
		{"5 decent bedrooms", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text, nil).Date)
		})
	}
}

func TestExtract_Time(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"This Saturday at 2pm", "2pm"},
		{"at 10:30 AM please", "10:30 am"},
		{"around 11 am", "11 am"},
		{"in the afternoon", "afternoon"},
		// Clock time beats the day-part word
		{"morning, 9:15pm", "9:15pm"},
		{"no time given", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.text, nil).Time)
		})
	}
}

func TestExtract_Contact(t *testing.T) {
	e := newTestExtractor()

	ent := e.Extract("My name is John, phone 0712345678", nil)
	assert.Equal(t, "John", ent.Name)
	assert.Equal(t, "0712345678", ent.Phone)
	assert.Empty(t, ent.Email)

	ent = e.Extract("my name is jane wambui and my email is Jane@Example.com", nil)
	assert.Equal(t, "Jane Wambui", ent.Name)
	assert.Equal(t, "jane@example.com", ent.Email)

	ent = e.Extract("call me at +254 712 345 678 2 pm", nil)
	assert.Equal(t, "+254 712 345 678", ent.Phone)

	// Contact details without a lead-in are ignored
	ent = e.Extract("John 0712345678 john@example.com", nil)
	assert.Empty(t, ent.Name)
	assert.Empty(t, ent.Phone)
	assert.Empty(t, ent.Email)

	// Too few digits
	assert.Empty(t, e.Extract("my number is 12345", nil).Phone)
}

func TestExtract_IsPure(t *testing.T) {
	e := newTestExtractor()
	texts := []string{
		"",
		"I want to view the Lakefront Villa",
		"My name is John, phone 0712345678",
		"This Saturday at 2pm",
		"3 bedroom villa in Naivasha under 300 million",
	}

	for _, text := range texts {
		first := e.Extract(text, []string{"Tell me about the Lakefront Villa"})
		second := e.Extract(text, []string{"Tell me about the Lakefront Villa"})
		assert.Equal(t, first, second, text)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := newTestExtractor()

	ent := e.Extract("", nil)
	assert.Empty(t, ent.PropertyName)
	assert.Empty(t, ent.Location)
	assert.Nil(t, ent.PriceRange)
	assert.Empty(t, ent.Date)
}
