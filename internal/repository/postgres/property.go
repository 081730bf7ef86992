package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/property-assistant/internal/domain"
)

const propertyColumns = `id, title, description, price, location, address, bedrooms, bathrooms, size_sqft, status, featured, agent_id`

// DirectoryRepository implements domain.Directory and domain.CatalogSource
type DirectoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository creates a new directory repository
func NewDirectoryRepository(pool *pgxpool.Pool) *DirectoryRepository {
	return &DirectoryRepository{pool: pool}
}

// ListProperties returns every property in catalog order
func (r *DirectoryRepository) ListProperties(ctx context.Context) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// ListAgents returns every agent
func (r *DirectoryRepository) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	query := `SELECT id, name, email, phone, bio FROM agents ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Bio); err != nil {
			return nil, fmt.Errorf("failed to scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// FindPropertiesByFilter searches properties; zero filter fields match anything
func (r *DirectoryRepository) FindPropertiesByFilter(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE ($1::text = '' OR location ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%')
		  AND ($2::int = 0 OR bedrooms = $2)
		  AND ($3::bigint = 0 OR price BETWEEN $4 AND $5)
		ORDER BY id
	`

	low, high := filter.PriceBand()
	rows, err := r.pool.Query(ctx, query, filter.Location, filter.Bedrooms, filter.PriceTarget, low, high)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	return scanProperties(rows)
}

// FindPropertyByName looks a property up by its exact title, ignoring case
func (r *DirectoryRepository) FindPropertyByName(ctx context.Context, name string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE lower(title) = lower($1) ORDER BY id LIMIT 1`

	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	defer rows.Close()

	props, err := scanProperties(rows)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, domain.ErrNotFound
	}
	return &props[0], nil
}

// GetAgent retrieves an agent by ID
func (r *DirectoryRepository) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	query := `SELECT id, name, email, phone, bio FROM agents WHERE id = $1`

	var a domain.Agent
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return &a, nil
}

func scanProperties(rows pgx.Rows) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		var status string
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.Price,
			&p.Location,
			&p.Address,
			&p.Bedrooms,
			&p.Bathrooms,
			&p.SizeSqft,
			&status,
			&p.Featured,
			&p.AgentID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		p.Status = domain.PropertyStatus(status)
		props = append(props, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return props, nil
}
