package postgres

import "errors"

// Sentinel errors for the Postgres store.
var (
	ErrOpen    = errors.New("open postgres database")
	ErrMigrate = errors.New("migrate postgres schema")
)
