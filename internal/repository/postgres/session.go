package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/property-assistant/internal/domain"
)

// SessionRepository implements domain.SessionStore
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Save upserts the snapshot of a session
func (r *SessionRepository) Save(ctx context.Context, snap *domain.SessionSnapshot) error {
	query := `
		INSERT INTO chat_sessions (session_id, phase, snapshot, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			phase = EXCLUDED.phase,
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at
	`
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		snap.SessionID,
		string(snap.State.Phase),
		data,
		snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the snapshot of a session
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	query := `SELECT snapshot FROM chat_sessions WHERE session_id = $1`

	var data []byte
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &snap, nil
}

// Delete removes a session snapshot
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM chat_sessions WHERE session_id = $1`
	_, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
