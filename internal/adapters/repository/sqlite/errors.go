package sqlite

import "errors"

// Sentinel errors for the SQLite store.
var (
	ErrOpen             = errors.New("open sqlite database")
	ErrCorrupt          = errors.New("database is corrupt")
	ErrRecoveryDeclined = errors.New("database could not be backed up and clearing it was declined")
)
