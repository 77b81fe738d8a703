// Package postgres is the Postgres persistence adapter, built on bun.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/adapters/repository/postgres/migrations"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// Store implements repository.Backend on Postgres.
type Store struct {
	dsn          string
	maxOpenConns int
	maxIdleConns int
	logger       logger.Logger

	db *bun.DB
}

var (
	_ repository.Backend = (*Store)(nil)
	_ repository.Unit    = (*unit)(nil)
)

// Open connects, pings and applies pending migrations.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	s := &Store{
		maxOpenConns: 8,
		maxIdleConns: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("postgres")
	}
	if s.dsn == "" {
		return nil, fmt.Errorf("%w: empty dsn", ErrOpen)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(s.dsn)))
	sqldb.SetMaxOpenConns(s.maxOpenConns)
	sqldb.SetMaxIdleConns(s.maxIdleConns)
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	s.db = bun.NewDB(sqldb, pgdialect.New())
	s.db.AddQueryHook(&queryHook{logger: s.logger})

	if err := s.migrate(ctx); err != nil {
		_ = s.db.Close()
		return nil, err
	}
	s.logger.Info(ctx, "postgres store ready", logger.Int("maxOpenConns", s.maxOpenConns))
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(s.db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("%w: init: %w", ErrMigrate, err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("%w: lock: %w", ErrMigrate, err)
	}
	defer func() { _ = migrator.Unlock(ctx) }()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrate, err)
	}
	if !group.IsZero() {
		s.logger.Info(ctx, "schema migrated", logger.String("group", group.String()))
	}
	return nil
}

// Begin implements repository.Store. ctx bounds only the wait for a
// connection; the transaction itself is not tied to it.
func (s *Store) Begin(ctx context.Context) (repository.Unit, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrAcquire, err)
	}
	tx, err := conn.BeginTx(context.WithoutCancel(ctx), nil)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: begin: %w", repository.ErrAcquire, err)
	}
	return &unit{conn: conn, tx: tx}, nil
}

// Aggregate implements repository.AggregateReader.
func (s *Store) Aggregate(ctx context.Context, team model.Team) (model.TeamAggregate, error) {
	var row TeamDetails
	err := s.db.NewSelect().Model(&row).Where("team = ?", int64(team)).Scan(ctx)
	if isNoRows(err) {
		return model.TeamAggregate{}, repository.ErrNotFound
	}
	if err != nil {
		return model.TeamAggregate{}, fmt.Errorf("select team %d: %w", team, err)
	}
	return row.Aggregate(), nil
}

// Aggregates implements repository.AggregateReader.
func (s *Store) Aggregates(ctx context.Context) ([]model.TeamAggregate, error) {
	var rows []TeamDetails
	if err := s.db.NewSelect().Model(&rows).Order("team ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select team details: %w", err)
	}
	out := make([]model.TeamAggregate, len(rows))
	for i := range rows {
		out[i] = rows[i].Aggregate()
	}
	return out, nil
}

// Image returns the stored picture for team.
func (s *Store) Image(ctx context.Context, team model.Team) ([]byte, error) {
	var row Image
	err := s.db.NewSelect().Model(&row).Where("team = ?", int64(team)).Scan(ctx)
	if isNoRows(err) {
		return nil, repository.ErrNotFound
	}
	return row.Img, err
}

// DB exposes the underlying handle.
func (s *Store) DB() *bun.DB { return s.db }

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
