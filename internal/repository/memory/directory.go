package memory

import (
	"context"
	"strings"

	"github.com/Rrens/property-assistant/internal/domain"
)

// DirectoryRepository serves a fixed catalog from memory
type DirectoryRepository struct {
	properties []domain.Property
	agents     []domain.Agent
}

// NewDirectoryRepository creates a directory over the given catalog
func NewDirectoryRepository(properties []domain.Property, agents []domain.Agent) *DirectoryRepository {
	return &DirectoryRepository{properties: properties, agents: agents}
}

// NewSeededDirectoryRepository creates a directory over the seed catalog
func NewSeededDirectoryRepository() *DirectoryRepository {
	return NewDirectoryRepository(SeedProperties(), SeedAgents())
}

func (r *DirectoryRepository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return append([]domain.Property(nil), r.properties...), nil
}

func (r *DirectoryRepository) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return append([]domain.Agent(nil), r.agents...), nil
}

func (r *DirectoryRepository) FindPropertiesByFilter(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	var matches []domain.Property
	for _, p := range r.properties {
		if filter.Matches(p) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *DirectoryRepository) FindPropertyByName(ctx context.Context, name string) (*domain.Property, error) {
	for i := range r.properties {
		if strings.EqualFold(r.properties[i].Title, name) {
			p := r.properties[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *DirectoryRepository) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	for i := range r.agents {
		if r.agents[i].ID == id {
			a := r.agents[i]
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}
