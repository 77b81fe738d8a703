package sqlite

import (
	"io"
	"time"

	"github.com/okian/specialscout/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithPath sets the database file.
func WithPath(path string) Option {
	return func(s *Store) {
		if path != "" {
			s.path = path
		}
	}
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithPool sizes the connection pool.
func WithPool(maxOpen, maxIdle int) Option {
	return func(s *Store) {
		if maxOpen > 0 {
			s.maxOpenConns = maxOpen
		}
		if maxIdle >= 0 {
			s.maxIdleConns = maxIdle
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrompt sets where the operator is asked before a database that could
// not be backed up is cleared.
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(s *Store) {
		if in != nil {
			s.promptIn = in
		}
		if out != nil {
			s.promptOut = out
		}
	}
}
