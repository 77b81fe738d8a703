package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound   = errors.New("team not found")
	ErrAcquire    = errors.New("no connection available")
	ErrUnitClosed = errors.New("unit already finished")
)
