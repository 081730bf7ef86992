package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/api/handler"
	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/domain"
	"github.com/Rrens/property-assistant/internal/repository/memory"
	"github.com/Rrens/property-assistant/internal/repository/postgres"
	"github.com/Rrens/property-assistant/internal/repository/redis"
	"github.com/Rrens/property-assistant/internal/repository/sqlite"
)

// backend groups the repositories selected by storage.driver
type backend struct {
	source   domain.CatalogSource
	inbox    domain.Inbox
	messages domain.MessageRepository
	sessions domain.SessionStore
	limiter  *redis.ChatLimiter
	ready    map[string]handler.Pinger
	closers  []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{ready: make(map[string]handler.Pinger)}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		b.source = postgres.NewDirectoryRepository(db.Pool)
		b.inbox = postgres.NewInboxRepository(db.Pool)
		b.messages = postgres.NewMessageRepository(db.Pool)
		b.sessions = postgres.NewSessionRepository(db.Pool)
		b.ready["database"] = db

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path, cfg.SQLite.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		b.closers = append(b.closers, func() { store.Close() })
		b.source = store
		b.inbox = store
		b.messages = store
		b.sessions = store
		b.ready["database"] = store

	default:
		b.source = memory.NewSeededDirectoryRepository()
		b.inbox = memory.NewInboxRepository()
		b.messages = memory.NewMessageRepository()
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		b.closers = append(b.closers, func() { client.Close() })
		b.sessions = redis.NewSessionStore(client, cfg.Assistant.SnapshotTTL)
		b.limiter = redis.NewChatLimiter(client, cfg.Assistant.RateLimit)
		b.ready["redis"] = client
	}

	log.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Bool("session_snapshots", b.sessions != nil).
		Msg("Storage initialized")

	return b, nil
}
