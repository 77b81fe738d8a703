// Package repository defines the persistence contract for submissions and
// team aggregates, plus an in-memory implementation.
package repository

import (
	"context"

	"github.com/okian/specialscout/internal/domain/model"
)

// Store hands out units of work. Each unit holds one pooled connection and
// one transaction until it is committed or rolled back.
type Store interface {
	// Begin obtains a connection and opens a transaction. When no connection
	// is available before ctx is done, the error wraps ErrAcquire.
	Begin(ctx context.Context) (Unit, error)
}

// Unit is a single atomic group of writes.
type Unit interface {
	// InsertRaw stores the submission verbatim, tagged with its submitter.
	InsertRaw(ctx context.Context, submitter model.SubmitterID, rec model.Record) error
	// FetchAggregate returns the team's aggregate and whether it exists.
	FetchAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, bool, error)
	// UpsertAggregate writes every column of the aggregate row.
	UpsertAggregate(ctx context.Context, agg model.TeamAggregate) error
	// UpsertImage replaces the team's stored picture.
	UpsertImage(ctx context.Context, team model.Team, img []byte) error

	Commit(ctx context.Context) error
	// Rollback discards the unit. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}

// AggregateReader serves the read side.
type AggregateReader interface {
	// Aggregate returns ErrNotFound for unknown teams.
	Aggregate(ctx context.Context, team model.Team) (model.TeamAggregate, error)
	// Aggregates returns every row ordered by team.
	Aggregates(ctx context.Context) ([]model.TeamAggregate, error)
}

// Backend is what a concrete adapter provides to the service.
type Backend interface {
	Store
	AggregateReader
	Close() error
}
