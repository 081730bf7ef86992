package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rrens/property-assistant/internal/domain"
)

// InboxRepository implements domain.Inbox
type InboxRepository struct {
	pool *pgxpool.Pool
}

// NewInboxRepository creates a new inbox repository
func NewInboxRepository(pool *pgxpool.Pool) *InboxRepository {
	return &InboxRepository{pool: pool}
}

// Append inserts a notification. The unique viewing_request_id makes a
// replayed delivery a no-op.
func (r *InboxRepository) Append(ctx context.Context, n *domain.AgentNotification) error {
	query := `
		INSERT INTO agent_notifications
			(id, sender_id, receiver_id, content, property_id, viewing_request_id, client_info, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (viewing_request_id) DO NOTHING
	`

	clientInfo, err := json.Marshal(n.ClientInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal client info: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		n.ID,
		n.SenderID,
		n.ReceiverID,
		n.Content,
		n.PropertyID,
		n.ViewingRequestID,
		clientInfo,
		n.Read,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByAgent returns an agent's notifications, oldest first
func (r *InboxRepository) ListByAgent(ctx context.Context, agentID int64, unreadOnly bool) ([]domain.AgentNotification, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, property_id, viewing_request_id, client_info, read, created_at
		FROM agent_notifications
		WHERE receiver_id = $1 AND (NOT $2::boolean OR read = false)
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, agentID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var list []domain.AgentNotification
	for rows.Next() {
		var n domain.AgentNotification
		var clientInfo []byte
		if err := rows.Scan(
			&n.ID,
			&n.SenderID,
			&n.ReceiverID,
			&n.Content,
			&n.PropertyID,
			&n.ViewingRequestID,
			&clientInfo,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if len(clientInfo) > 0 {
			if err := json.Unmarshal(clientInfo, &n.ClientInfo); err != nil {
				return nil, fmt.Errorf("failed to unmarshal client info: %w", err)
			}
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead flags a notification as read
func (r *InboxRepository) MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error {
	query := `UPDATE agent_notifications SET read = true WHERE id = $1 AND receiver_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, agentID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
