package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// Migration directions
const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// RunMigrations applies (or with MigrateDown, rolls back one step of) the
// migrations found at sourceURL
func RunMigrations(dsn string, sourceURL string, direction string) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Steps(-1)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Str("direction", direction).Msg("Database migration: no changes")
			return nil
		}
		return fmt.Errorf("failed to run migrate %s: %w", direction, err)
	}

	version, dirty, _ := m.Version()
	log.Info().
		Str("direction", direction).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database migration: success")
	return nil
}
