// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named by
// WORDSCORE_CONFIG, then WORDSCORE_ environment variables.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/wordscore/internal/adapters/repository/sqlstore"
	"github.com/okian/wordscore/internal/domain/ranking"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the score store: memory, sqlite or postgres.
	StorageDriver string `koanf:"storage_driver"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	PostgresHost     string `koanf:"postgres_host"`
	PostgresPort     int    `koanf:"postgres_port"`
	PostgresUser     string `koanf:"postgres_user"`
	PostgresPassword string `koanf:"postgres_password"`
	PostgresDatabase string `koanf:"postgres_database"`
	PostgresSSLMode  string `koanf:"postgres_ssl_mode"`
	PostgresMaxConns int    `koanf:"postgres_max_conns"`

	// AutoMigrate applies SQL migrations when the server starts.
	AutoMigrate bool `koanf:"auto_migrate"`

	// MaxLetters caps the length of a submitted word.
	MaxLetters int `koanf:"max_letters"`

	// DefaultPageSize is used when a leaderboard request omits size.
	DefaultPageSize int `koanf:"default_page_size"`

	// RateLimitRPS is the per-client write rate. Zero disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the per-client token bucket depth.
	RateLimitBurst int `koanf:"rate_limit_burst"`

	// TrustProxyHeaders keys the rate limiter by X-Forwarded-For/X-Real-IP.
	// Enable only behind a reverse proxy that sets those headers.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`

	// IdempotencyCacheSize bounds the Idempotency-Key cache.
	IdempotencyCacheSize int `koanf:"idempotency_cache_size"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsPrefix is prepended to every metric name.
	MetricsPrefix string `koanf:"metrics_prefix"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		StorageDriver:        DriverMemory,
		SQLitePath:           "wordscore.db",
		PostgresHost:         "localhost",
		PostgresPort:         5432,
		PostgresUser:         "postgres",
		PostgresDatabase:     "wordscore",
		PostgresSSLMode:      "disable",
		PostgresMaxConns:     10,
		AutoMigrate:          true,
		MaxLetters:           10,
		DefaultPageSize:      ranking.DefaultPageSize,
		RateLimitRPS:         20,
		RateLimitBurst:       40,
		IdempotencyCacheSize: 10_000,
		MetricsEnabled:       true,
	}
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return invalid("addr must not be empty")
	case c.StorageDriver != DriverMemory && c.StorageDriver != DriverSQLite && c.StorageDriver != DriverPostgres:
		return invalid(fmt.Sprintf("unknown storage_driver %q", c.StorageDriver))
	case c.MaxLetters < 1:
		return invalid("max_letters must be at least 1")
	case c.DefaultPageSize < 1 || c.DefaultPageSize > ranking.MaxPageSize:
		return invalid(fmt.Sprintf("default_page_size must be within 1..%d", ranking.MaxPageSize))
	case c.RateLimitRPS < 0:
		return invalid("rate_limit_rps must not be negative")
	case c.RateLimitRPS > 0 && c.RateLimitBurst < 1:
		return invalid("rate_limit_burst must be at least 1 when rate limiting is enabled")
	case c.IdempotencyCacheSize < 1:
		return invalid("idempotency_cache_size must be at least 1")
	}
	return nil
}

// Postgres returns the connection options for the postgres driver.
func (c *Config) Postgres() sqlstore.PostgresOptions {
	return sqlstore.PostgresOptions{
		Username:           c.PostgresUser,
		Password:           c.PostgresPassword,
		Host:               c.PostgresHost,
		Port:               c.PostgresPort,
		Database:           c.PostgresDatabase,
		SslMode:            c.PostgresSSLMode,
		MaxOpenConnections: c.PostgresMaxConns,
		ConnMaxLifetime:    30 * time.Minute,
		ConnMaxIdleTime:    5 * time.Minute,
	}
}
