// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and SCOUT_ environment variables.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers understood by the service.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":80".
	Addr string `koanf:"addr"`

	// StoreDriver selects the persistence adapter: sqlite, postgres or memory.
	StoreDriver string `koanf:"store_driver"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// SQLiteBusyTimeoutMS is how long SQLite waits on a locked database.
	SQLiteBusyTimeoutMS int `koanf:"sqlite_busy_timeout_ms"`

	// PostgresDSN is required when StoreDriver is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// MaxOpenConns and MaxIdleConns size the connection pool.
	MaxOpenConns int `koanf:"max_open_conns"`
	MaxIdleConns int `koanf:"max_idle_conns"`

	// AcquireTimeoutMS bounds the wait for a team lock plus a pooled connection.
	AcquireTimeoutMS int `koanf:"acquire_timeout_ms"`

	// MaxBodyBytes caps request bodies on the submission endpoints.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// TraceStdout exports spans to stdout when true.
	TraceStdout bool `koanf:"trace_stdout"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":80",
		StoreDriver:         DriverSQLite,
		SQLitePath:          "db.sqlite",
		SQLiteBusyTimeoutMS: 5000,
		MaxOpenConns:        8,
		MaxIdleConns:        4,
		AcquireTimeoutMS:    5000,
		MaxBodyBytes:        8 << 20,
	}
}

// AcquireTimeout returns AcquireTimeoutMS as a duration.
func (c *Config) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutMS) * time.Millisecond
}

// SQLiteBusyTimeout returns SQLiteBusyTimeoutMS as a duration.
func (c *Config) SQLiteBusyTimeout() time.Duration {
	return time.Duration(c.SQLiteBusyTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StoreDriver) {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.AcquireTimeoutMS <= 0 {
		return fmt.Errorf("%w: acquire_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("%w: max_open_conns must be positive", ErrInvalidConfig)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
