package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	NLP       NLPConfig       `mapstructure:"nlp"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StorageConfig selects the backend for the directory, inbox and transcripts
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
	Seed bool   `mapstructure:"seed"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AssistantConfig tunes the session pipeline
type AssistantConfig struct {
	SessionTTL        time.Duration   `mapstructure:"session_ttl"`
	SnapshotTTL       time.Duration   `mapstructure:"snapshot_ttl"`
	SweepInterval     time.Duration   `mapstructure:"sweep_interval"`
	CatalogRefresh    time.Duration   `mapstructure:"catalog_refresh"`
	HistoryLimit      int             `mapstructure:"history_limit"`
	ContextTurns      int             `mapstructure:"context_turns"`
	NotificationQueue int             `mapstructure:"notification_queue"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

// NLPConfig holds the matching tables and thresholds of the rule-based NLP
type NLPConfig struct {
	FuzzyThreshold float64  `mapstructure:"fuzzy_threshold"`
	PriceTolerance float64  `mapstructure:"price_tolerance"`
	Gazetteer      []string `mapstructure:"gazetteer"`
	Keywords       Keywords `mapstructure:"keywords"`
	Vocabulary     Vocab    `mapstructure:"vocabulary"`
}

// Keywords are the intent keyword sets, matched on word boundaries
type Keywords struct {
	Greeting []string `mapstructure:"greeting"`
	Viewing  []string `mapstructure:"viewing"`
	Price    []string `mapstructure:"price"`
	Location []string `mapstructure:"location"`
	Property []string `mapstructure:"property"`
}

// Vocab holds the dialogue control words
type Vocab struct {
	Affirmative []string `mapstructure:"affirmative"`
	Cancel      []string `mapstructure:"cancel"`
	Negation    []string `mapstructure:"negation"`
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig enables rotated log files next to stderr output
type LogFileConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Pattern      string        `mapstructure:"pattern"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set config file path
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set defaults
	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	// Override with environment variables
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks values the assistant cannot run without
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.NLP.FuzzyThreshold <= 0 || c.NLP.FuzzyThreshold > 1 {
		return fmt.Errorf("nlp.fuzzy_threshold must be in (0,1], got %v", c.NLP.FuzzyThreshold)
	}
	if c.Assistant.SessionTTL <= 0 {
		return fmt.Errorf("assistant.session_ttl must be positive")
	}
	return nil
}

// Defaults returns the configuration produced by defaults alone
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "30s")

	// Storage
	v.SetDefault("storage.driver", DriverMemory)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "assistant")
	v.SetDefault("database.database", "assistant")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)

	// SQLite
	v.SetDefault("sqlite.path", "./data/assistant.db")
	v.SetDefault("sqlite.seed", true)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Assistant
	v.SetDefault("assistant.session_ttl", "30m")
	v.SetDefault("assistant.snapshot_ttl", "24h")
	v.SetDefault("assistant.sweep_interval", "1m")
	v.SetDefault("assistant.catalog_refresh", "5m")
	v.SetDefault("assistant.history_limit", 50)
	v.SetDefault("assistant.context_turns", 3)
	v.SetDefault("assistant.notification_queue", 64)
	v.SetDefault("assistant.rate_limit.requests_per_minute", 30)
	v.SetDefault("assistant.rate_limit.burst", 10)

	// NLP
	v.SetDefault("nlp.fuzzy_threshold", 0.6)
	v.SetDefault("nlp.price_tolerance", 0.2)
	v.SetDefault("nlp.gazetteer", []string{"Karen", "Westlands", "Naivasha", "Nairobi"})
	v.SetDefault("nlp.keywords.greeting", []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"})
	v.SetDefault("nlp.keywords.viewing", []string{"view", "visit", "see", "schedule", "book", "appointment", "viewing"})
	v.SetDefault("nlp.keywords.price", []string{"price", "prices", "cost", "budget", "expensive", "cheap", "affordable", "million", "kes"})
	v.SetDefault("nlp.keywords.location", []string{"karen", "westlands", "naivasha", "nairobi", "location", "area", "where"})
	v.SetDefault("nlp.keywords.property", []string{"house", "houses", "home", "homes", "property", "properties", "villa", "penthouse", "estate", "apartment"})
	v.SetDefault("nlp.vocabulary.affirmative", []string{"yes", "confirm", "book", "proceed", "go ahead", "sure", "ok", "okay"})
	v.SetDefault("nlp.vocabulary.cancel", []string{"cancel", "stop", "never mind", "nevermind", "forget it", "not interested"})
	v.SetDefault("nlp.vocabulary.negation", []string{"no", "not", "don't", "dont", "wrong", "change"})

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.file.enabled", false)
	v.SetDefault("logging.file.pattern", "./data/logs/assistant.%Y%m%d.log")
	v.SetDefault("logging.file.max_age", "168h") // 7 days
	v.SetDefault("logging.file.rotation_time", "24h")
}

func bindEnvVars(v *viper.Viper) {
	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")

	// Database
	v.BindEnv("database.host", "POSTGRES_HOST")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// SQLite
	v.BindEnv("sqlite.path", "SQLITE_PATH")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}
