// Package sqlite stores the catalog, agent inboxes, transcripts and session
// snapshots in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/repository/memory"
)

// Store implements domain.Directory, domain.CatalogSource, domain.Inbox,
// domain.MessageRepository and domain.SessionStore.
type Store struct {
	db *sql.DB
}

// Open creates (or opens) the database at path. With seed set, an empty
// catalog is filled with the default properties and agents.
func Open(ctx context.Context, path string, seed bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if seed {
		if err := s.seed(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS properties (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL,
		location TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		bedrooms INTEGER NOT NULL DEFAULT 0,
		bathrooms REAL NOT NULL DEFAULT 0,
		size_sqft INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'For Sale',
		featured INTEGER NOT NULL DEFAULT 0,
		agent_id INTEGER NOT NULL REFERENCES agents(id)
	);

	CREATE TABLE IF NOT EXISTS agent_notifications (
		id TEXT PRIMARY KEY,
		sender_id TEXT NOT NULL,
		receiver_id INTEGER NOT NULL,
		content TEXT NOT NULL,
		property_id INTEGER NOT NULL,
		viewing_request_id TEXT NOT NULL UNIQUE,
		client_info TEXT NOT NULL DEFAULT '{}',
		read INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_receiver ON agent_notifications(receiver_id, created_at);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, created_at);

	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		snapshot TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM properties`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count properties: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, a := range memory.SeedAgents() {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO agents (id, name, email, phone, bio) VALUES (?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Email, a.Phone, a.Bio,
		); err != nil {
			return fmt.Errorf("failed to seed agent %d: %w", a.ID, err)
		}
	}
	for _, p := range memory.SeedProperties() {
		if err := insertProperty(ctx, tx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertProperty(ctx context.Context, db execer, p domain.Property) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO properties
			(id, title, description, price, location, address, bedrooms, bathrooms, size_sqft, status, featured, agent_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Price, p.Location, p.Address,
		p.Bedrooms, p.Bathrooms, p.SizeSqft, string(p.Status), p.Featured, p.AgentID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property %d: %w", p.ID, err)
	}
	return nil
}

// Ping verifies database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

const propertyColumns = `id, title, description, price, location, address, bedrooms, bathrooms, size_sqft, status, featured, agent_id`

// ListProperties returns every property in catalog order
func (s *Store) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+propertyColumns+` FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

// ListAgents returns every agent
func (s *Store) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone, bio FROM agents ORDER BY id`)
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
func (s *Store) FindPropertiesByFilter(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	query := `
		SELECT ` + propertyColumns + `
		FROM properties
		WHERE (?1 = '' OR instr(lower(location), lower(?1)) > 0 OR instr(lower(address), lower(?1)) > 0)
		  AND (?2 = 0 OR bedrooms = ?2)
		  AND (?3 = 0 OR price BETWEEN ?4 AND ?5)
		ORDER BY id`

	low, high := filter.PriceBand()
	rows, err := s.db.QueryContext(ctx, query, filter.Location, filter.Bedrooms, filter.PriceTarget, low, high)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()
	return scanProperties(rows)
}

// FindPropertyByName looks a property up by its exact title, ignoring case
func (s *Store) FindPropertyByName(ctx context.Context, name string) (*domain.Property, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE lower(title) = lower(?) ORDER BY id LIMIT 1`, name)
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
func (s *Store) GetAgent(ctx context.Context, id int64) (*domain.Agent, error) {
	var a domain.Agent
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, phone, bio FROM agents WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return &a, nil
}

func scanProperties(rows *sql.Rows) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		var status string
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Location, &p.Address,
			&p.Bedrooms, &p.Bathrooms, &p.SizeSqft, &status, &p.Featured, &p.AgentID,
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

// Append inserts a notification; a second one for the same viewing request is ignored
func (s *Store) Append(ctx context.Context, n *domain.AgentNotification) error {
	clientInfo, err := json.Marshal(n.ClientInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal client info: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO agent_notifications
			(id, sender_id, receiver_id, content, property_id, viewing_request_id, client_info, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(viewing_request_id) DO NOTHING`,
		n.ID.String(), n.SenderID, n.ReceiverID, n.Content, n.PropertyID,
		n.ViewingRequestID.String(), string(clientInfo), n.Read, n.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByAgent returns an agent's notifications, oldest first
func (s *Store) ListByAgent(ctx context.Context, agentID int64, unreadOnly bool) ([]domain.AgentNotification, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, property_id, viewing_request_id, client_info, read, created_at
		FROM agent_notifications
		WHERE receiver_id = ?`
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var list []domain.AgentNotification
	for rows.Next() {
		var n domain.AgentNotification
		var id, requestID, clientInfo string
		var createdAt int64
		if err := rows.Scan(
			&id, &n.SenderID, &n.ReceiverID, &n.Content, &n.PropertyID,
			&requestID, &clientInfo, &n.Read, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if n.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse notification id: %w", err)
		}
		if n.ViewingRequestID, err = uuid.Parse(requestID); err != nil {
			return nil, fmt.Errorf("failed to parse viewing request id: %w", err)
		}
		if err := json.Unmarshal([]byte(clientInfo), &n.ClientInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal client info: %w", err)
		}
		n.CreatedAt = time.Unix(0, createdAt).UTC()
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead flags a notification as read
func (s *Store) MarkRead(ctx context.Context, agentID int64, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE agent_notifications SET read = 1 WHERE id = ? AND receiver_id = ?`, id.String(), agentID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Create inserts a new message
func (s *Store) Create(ctx context.Context, m *domain.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, intent, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.SessionID, string(m.Role), m.Content, string(m.Intent), m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListBySession retrieves the latest messages of a session, oldest first
func (s *Store) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, intent, created_at
		FROM chat_messages
		WHERE session_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var id, role, intent string
		var createdAt int64
		if err := rows.Scan(&id, &m.SessionID, &role, &m.Content, &intent, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse message id: %w", err)
		}
		m.Role = domain.MessageRole(role)
		m.Intent = domain.IntentType(intent)
		m.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	// Reverse to return chronological order (oldest first)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Load returns the stored snapshot of a session
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE session_id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap domain.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &snap, nil
}

// Save upserts a session snapshot
func (s *Store) Save(ctx context.Context, snap *domain.SessionSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (session_id, snapshot, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			snapshot = excluded.snapshot,
			updated_at = excluded.updated_at`,
		snap.SessionID, string(data), snap.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session snapshot
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
