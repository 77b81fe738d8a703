package ingest

import (
	"errors"
	"fmt"

	"github.com/okian/specialscout/internal/domain/model"
)

// Kind classifies why a submission was not applied.
type Kind uint8

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindMalformedPayload
	KindConnectionTimeout
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindMalformedPayload:
		return "malformed_payload"
	case KindConnectionTimeout:
		return "connection_timeout"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by *Error through errors.Is.
var (
	ErrConnectionTimeout = errors.New("timed out connecting to store")
	ErrPersistence       = errors.New("persistence failed")
)

// Error is returned by the engine for every failed submission.
type Error struct {
	Op   string
	Kind Kind
	Team model.Team
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: team %d: %s: %v", e.Op, e.Team, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel that corresponds to e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConnectionTimeout:
		return e.Kind == KindConnectionTimeout
	case ErrPersistence:
		return e.Kind == KindPersistence
	case model.ErrMalformedPayload:
		return e.Kind == KindMalformedPayload
	}
	return false
}

// KindOf reports the failure kind carried by err.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, model.ErrMalformedPayload) {
		return KindMalformedPayload
	}
	return KindUnknown
}

// BatchError names the first record of a batch that failed. Records
// before Index were committed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
