package repository

import (
	"context"
	"time"
)

// Op names a unit operation, passed to fault hooks.
type Op string

// Unit operations.
const (
	OpInsertRaw       Op = "insert_raw"
	OpFetchAggregate  Op = "fetch_aggregate"
	OpUpsertAggregate Op = "upsert_aggregate"
	OpUpsertImage     Op = "upsert_image"
	OpCommit          Op = "commit"
)

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithMaxConns bounds the number of concurrently open units.
func WithMaxConns(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxConns = n
		}
	}
}

// WithFaultHook installs a hook consulted before every unit operation.
// A non-nil return fails that operation.
func WithFaultHook(hook func(ctx context.Context, op Op) error) Option {
	return func(s *MemStore) {
		s.hook = hook
	}
}
