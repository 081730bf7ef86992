package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/property-assistant/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO chat_messages (id, session_id, role, content, intent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		string(message.Role),
		message.Content,
		string(message.Intent),
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListBySession retrieves the latest messages of a session, oldest first
func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, session_id, role, content, intent, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT NULLIF($2::int, 0)
	`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var role, intent string

		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &intent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		m.Intent = domain.IntentType(intent)
		messages = append(messages, m)
	}

	// Reverse to return chronological order (oldest first)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
