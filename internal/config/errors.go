package config

import "errors"

var (
	// ErrInvalidConfig marks a loaded configuration that fails Validate:
	// an empty addr or sqlite_path, an unknown store_driver, a postgres driver without
	// postgres_dsn, or a non-positive acquire_timeout_ms, max_open_conns
	// or max_body_bytes.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a SCOUT_CONFIG file or SCOUT_ environment that
	// could not be read or unmarshalled.
	ErrLoadConfig = errors.New("load config failed")
)
