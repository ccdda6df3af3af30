// Package config handles application configuration via environment variables.
// It uses kelseyhightower/envconfig for parsing and provides sensible defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Query engines selectable with APP_QUERY_ENGINE.
const (
	EnginePgx    = "pgx"
	EngineGorm   = "gorm"
	EngineMemory = "memory"
)

// Config holds all application configuration.
// Values are loaded from environment variables with the prefix "APP".
// Example: APP_PORT=8080, APP_LOG_LEVEL=debug
type Config struct {
	// Server configuration (embedded to flatten env vars)
	Server ServerConfig

	// Database configuration (embedded to flatten env vars)
	Database DatabaseConfig

	// Logging configuration (embedded to flatten env vars)
	Log LogConfig

	// Order query configuration
	Query QueryConfig

	// Startup tasks
	Bootstrap BootstrapConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Host is the HTTP server host (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// ReadTimeout is the maximum duration for reading the entire request (default: 10s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`

	// WriteTimeout is the maximum duration before timing out writes of the response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish (default: 30s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Host is the database host (default: localhost)
	Host string `envconfig:"DB_HOST" default:"localhost"`

	// Port is the database port (default: 5432)
	Port int `envconfig:"DB_PORT" default:"5432"`

	// User is the database user (default: postgres)
	User string `envconfig:"DB_USER" default:"postgres"`

	// Password is the database password (required in production)
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`

	// Name is the database name (default: jpashop)
	Name string `envconfig:"DB_NAME" default:"jpashop"`

	// SSLMode is the SSL mode for the connection (default: disable)
	SSLMode string `envconfig:"DB_SSLMODE" default:"disable"`

	// MaxOpenConns is the maximum number of open connections (default: 25)
	MaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`

	// MaxIdleConns is the maximum number of idle connections (default: 5)
	MaxIdleConns int `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`

	// ConnMaxLifetime is the maximum lifetime of a connection (default: 5m)
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`

	// LogQueries traces every SQL statement at debug level (default: false)
	LogQueries bool `envconfig:"DB_LOG_QUERIES" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is the log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LOG_LEVEL" default:"info"`

	// Format is the log format: json, text, plain (default: json)
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// QueryConfig tunes how order aggregates are read.
type QueryConfig struct {
	// Engine is the read-side store: pgx, gorm or memory (default: pgx)
	Engine string `envconfig:"QUERY_ENGINE" default:"pgx"`

	// DefaultPolicy is used when a request names no policy (default: batched)
	DefaultPolicy string `envconfig:"QUERY_DEFAULT_POLICY" default:"batched"`

	// BatchFetchSize is the IN-list size for batched line loading (default: 100)
	BatchFetchSize int `envconfig:"QUERY_BATCH_FETCH_SIZE" default:"100"`

	// MaxResults caps every page of orders (default: 1000)
	MaxResults int `envconfig:"QUERY_MAX_RESULTS" default:"1000"`
}

// BootstrapConfig holds one-off startup tasks.
type BootstrapConfig struct {
	// Migrate applies pending schema migrations on startup (default: true)
	Migrate bool `envconfig:"DB_MIGRATE" default:"true"`

	// Seed inserts the demo members, items and orders (default: false)
	Seed bool `envconfig:"SEED_DATA" default:"false"`
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UsesDatabase reports whether the engine needs PostgreSQL.
func (c *QueryConfig) UsesDatabase() bool {
	return c.Engine != EngineMemory
}

// Validate checks values envconfig cannot check by itself.
func (c *QueryConfig) Validate() error {
	c.Engine = strings.ToLower(strings.TrimSpace(c.Engine))
	switch c.Engine {
	case EnginePgx, EngineGorm, EngineMemory:
	default:
		return fmt.Errorf("APP_QUERY_ENGINE must be one of pgx, gorm, memory: got %q", c.Engine)
	}
	if c.BatchFetchSize <= 0 {
		return fmt.Errorf("APP_QUERY_BATCH_FETCH_SIZE must be positive: got %d", c.BatchFetchSize)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("APP_QUERY_MAX_RESULTS must be positive: got %d", c.MaxResults)
	}
	return nil
}

// Load reads configuration from environment variables.
// It returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	var cfg Config

	// Load each config section separately to flatten env var names
	// This allows env vars like APP_PORT instead of APP_SERVER_PORT
	if err := envconfig.Process("APP", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to load log config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Query); err != nil {
		return nil, fmt.Errorf("failed to load query config: %w", err)
	}
	if err := cfg.Query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query config: %w", err)
	}
	if err := envconfig.Process("APP", &cfg.Bootstrap); err != nil {
		return nil, fmt.Errorf("failed to load bootstrap config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main.go during startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
