package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/repository/postgres"
)

func main() {
	direction := flag.String("direction", postgres.MigrateUp, "migration direction: up or down (one step)")
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("direction", *direction).
		Msg("Running migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), *source, *direction); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
