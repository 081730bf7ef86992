package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/domain"
)

type snapshot struct {
	properties []domain.Property
	agents     map[int64]domain.Agent
	titles     []string
	loadedAt   time.Time
}

// Catalog is an in-memory, read-only view of the property directory.
// Readers never block; Refresh swaps in a whole new snapshot.
type Catalog struct {
	source  domain.CatalogSource
	current atomic.Pointer[snapshot]
}

// New creates an empty catalog backed by source
func New(source domain.CatalogSource) *Catalog {
	c := &Catalog{source: source}
	c.current.Store(&snapshot{agents: map[int64]domain.Agent{}})
	return c
}

// Load creates a catalog and fills it from source
func Load(ctx context.Context, source domain.CatalogSource) (*Catalog, error) {
	c := New(source)
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Refresh reloads the snapshot from the source
func (c *Catalog) Refresh(ctx context.Context) error {
	properties, err := c.source.ListProperties(ctx)
	if err != nil {
		return fmt.Errorf("failed to list properties: %w", err)
	}
	agents, err := c.source.ListAgents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}

	snap := &snapshot{
		properties: properties,
		agents:     make(map[int64]domain.Agent, len(agents)),
		titles:     make([]string, 0, len(properties)),
		loadedAt:   time.Now(),
	}
	for _, a := range agents {
		snap.agents[a.ID] = a
	}
	for _, p := range properties {
		snap.titles = append(snap.titles, p.Title)
	}
	c.current.Store(snap)
	return nil
}

// Run refreshes the catalog every interval until ctx is done
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("Catalog refresh failed, keeping previous snapshot")
				continue
			}
			log.Debug().Int("properties", c.Len()).Msg("Catalog refreshed")
		}
	}
}

// Properties returns every property in catalog order
func (c *Catalog) Properties() []domain.Property {
	return append([]domain.Property(nil), c.current.Load().properties...)
}

// Titles returns property titles in catalog order
func (c *Catalog) Titles() []string {
	return c.current.Load().titles
}

// Property returns the property with the given ID from the current snapshot
func (c *Catalog) Property(id int64) (domain.Property, bool) {
	for _, p := range c.current.Load().properties {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Property{}, false
}

// Agents returns the agent index of the current snapshot. Callers must not modify it.
func (c *Catalog) Agents() map[int64]domain.Agent {
	return c.current.Load().agents
}

// Len returns the number of properties in the snapshot
func (c *Catalog) Len() int {
	return len(c.current.Load().properties)
}

// LoadedAt returns when the current snapshot was taken
func (c *Catalog) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}

// AveragePrice returns the mean price of all properties, or 0 for an empty catalog
func (c *Catalog) AveragePrice() int64 {
	return Average(c.current.Load().properties)
}

func (c *Catalog) FindPropertiesByFilter(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	var matches []domain.Property
	for _, p := range c.current.Load().properties {
		if filter.Matches(p) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (c *Catalog) FindPropertyByName(ctx context.Context, name string) (*domain.Property, error) {
	for _, p := range c.current.Load().properties {
		if strings.EqualFold(p.Title, name) {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (c *Catalog) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	a, ok := c.current.Load().agents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// Average returns the arithmetic mean price of properties, rounded down
func Average(properties []domain.Property) int64 {
	if len(properties) == 0 {
		return 0
	}
	var total int64
	for _, p := range properties {
		total += p.Price
	}
	return total / int64(len(properties))
}

// ByLocation groups properties by location, preserving catalog order inside each group
func ByLocation(properties []domain.Property) (map[string][]domain.Property, []string) {
	groups := make(map[string][]domain.Property)
	var order []string
	for _, p := range properties {
		if _, ok := groups[p.Location]; !ok {
			order = append(order, p.Location)
		}
		groups[p.Location] = append(groups[p.Location], p)
	}
	return groups, order
}
