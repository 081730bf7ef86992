package domain

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by directory and inbox lookups that match nothing
var ErrNotFound = errors.New("not found")

// PropertyStatus represents the listing status of a property
type PropertyStatus string

const (
	StatusForSale PropertyStatus = "For Sale"
	StatusForRent PropertyStatus = "For Rent"
	StatusSold    PropertyStatus = "Sold"
	StatusRented  PropertyStatus = "Rented"
)

// Property represents a catalog listing
type Property struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       int64          `json:"price"`
	Location    string         `json:"location"`
	Address     string         `json:"address"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   float64        `json:"bathrooms"`
	SizeSqft    int            `json:"size_sqft"`
	Status      PropertyStatus `json:"status"`
	Featured    bool           `json:"featured"`
	AgentID     int64          `json:"agent_id"`
}

// Agent represents the property specialist responsible for listings
type Agent struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Bio   string `json:"bio,omitempty"`
}

// PropertyFilter narrows a catalog search. Zero values mean "any".
type PropertyFilter struct {
	Location string
	Bedrooms int
	// PriceTarget selects properties within PriceTolerance of the target price
	PriceTarget    int64
	PriceTolerance float64
}

// IsEmpty reports whether the filter matches every property
func (f PropertyFilter) IsEmpty() bool {
	return f.Location == "" && f.Bedrooms == 0 && f.PriceTarget == 0
}

// Matches reports whether p satisfies every set field of the filter.
// Location matches the property's location or its address.
func (f PropertyFilter) Matches(p Property) bool {
	if f.Location != "" {
		loc := strings.ToLower(f.Location)
		if !strings.Contains(strings.ToLower(p.Location), loc) &&
			!strings.Contains(strings.ToLower(p.Address), loc) {
			return false
		}
	}
	if f.Bedrooms > 0 && p.Bedrooms != f.Bedrooms {
		return false
	}
	if f.PriceTarget > 0 {
		low, high := f.PriceBand()
		if p.Price < low || p.Price > high {
			return false
		}
	}
	return true
}

// PriceBand returns the inclusive price bounds around PriceTarget
func (f PropertyFilter) PriceBand() (int64, int64) {
	delta := int64(float64(f.PriceTarget) * f.PriceTolerance)
	return f.PriceTarget - delta, f.PriceTarget + delta
}

// Directory is the read-only property/agent lookup the assistant consumes
type Directory interface {
	FindPropertiesByFilter(ctx context.Context, filter PropertyFilter) ([]Property, error)
	FindPropertyByName(ctx context.Context, name string) (*Property, error)
	GetAgent(ctx context.Context, id int64) (*Agent, error)
}

// CatalogSource lists the full catalog, in catalog order, for snapshot loading
type CatalogSource interface {
	ListProperties(ctx context.Context) ([]Property, error)
	ListAgents(ctx context.Context) ([]Agent, error)
}

// AgentResolver resolves the agent responsible for a property
type AgentResolver interface {
	GetAgent(ctx context.Context, id int64) (*Agent, error)
}
