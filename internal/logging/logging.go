package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/config"
)

// Setup configures the global zerolog logger. The returned closer releases
// the rotating log file, if one was opened.
func Setup(cfg config.LoggingConfig) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var console io.Writer = os.Stderr
	if cfg.Format == "console" || (cfg.Format == "" && os.Getenv("ENV") != "production") {
		console = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if !cfg.File.Enabled {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File.Pattern), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	opts := []rotatelogs.Option{rotatelogs.WithMaxAge(cfg.File.MaxAge)}
	if cfg.File.RotationTime > 0 {
		opts = append(opts, rotatelogs.WithRotationTime(cfg.File.RotationTime))
	}
	rl, err := rotatelogs.New(cfg.File.Pattern, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open rotating log file: %w", err)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rl)).With().Timestamp().Logger()
	return rl, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
