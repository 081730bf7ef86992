package domain

// IntentType is the classified purpose of one user message
type IntentType string

const (
	IntentGreeting        IntentType = "greeting"
	IntentPropertySearch  IntentType = "property_search"
	IntentPropertyInfo    IntentType = "property_info"
	IntentPriceInquiry    IntentType = "price_inquiry"
	IntentLocationInquiry IntentType = "location_inquiry"
	IntentViewingRequest  IntentType = "viewing_request"
	IntentGeneralInquiry  IntentType = "general_inquiry"
)

// IntentTypes lists every intent the classifier can produce
var IntentTypes = []IntentType{
	IntentGreeting,
	IntentPropertySearch,
	IntentPropertyInfo,
	IntentPriceInquiry,
	IntentLocationInquiry,
	IntentViewingRequest,
	IntentGeneralInquiry,
}

// IsValid checks if an intent type is recognized
func (t IntentType) IsValid() bool {
	for _, v := range IntentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Intent is recomputed every turn and never persisted
type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
	Entities   Entities   `json:"entities"`
}

// Entities holds the slots extracted from one message.
// A field is set only when its dedicated rule matched.
type Entities struct {
	Location     string `json:"location,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
	// PropertyFromContext is set when PropertyName came from earlier turns
	PropertyFromContext bool   `json:"property_from_context,omitempty"`
	PriceRange          *int64 `json:"price_range,omitempty"`
	Bedrooms            *int   `json:"bedrooms,omitempty"`
	Date                string `json:"date,omitempty"`
	Time                string `json:"time,omitempty"`
	Name                string `json:"name,omitempty"`
	Phone               string `json:"phone,omitempty"`
	Email               string `json:"email,omitempty"`
}

// HasProperty reports whether a property name was resolved
func (e Entities) HasProperty() bool {
	return e.PropertyName != ""
}

// Filter builds a catalog filter from the search-related slots
func (e Entities) Filter(tolerance float64) PropertyFilter {
	f := PropertyFilter{Location: e.Location, PriceTolerance: tolerance}
	if e.Bedrooms != nil {
		f.Bedrooms = *e.Bedrooms
	}
	if e.PriceRange != nil {
		f.PriceTarget = *e.PriceRange
	}
	return f
}
