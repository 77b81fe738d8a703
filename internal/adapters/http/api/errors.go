package api

import (
	"errors"
	"net/http"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/ingest"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

// Error is a handler failure tagged with the operation that produced it.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// WrapKind tags err with op and kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	return e.Op + ": " + e.message()
}

func (e *Error) message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// classify maps err to a status code and a stable machine-readable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	switch ingest.KindOf(err) {
	case ingest.KindMalformedPayload:
		return http.StatusBadRequest, "malformed_payload"
	case ingest.KindConnectionTimeout:
		return http.StatusRequestTimeout, "connection_timeout"
	case ingest.KindPersistence:
		return http.StatusInternalServerError, "persistence"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// messageOf drops the operation prefix so clients see the underlying cause.
func messageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.message()
	}
	return err.Error()
}
