// Package service wires the store, the ingestion engine and the read side
// into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/adapters/repository/postgres"
	"github.com/okian/specialscout/internal/adapters/repository/sqlite"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/domain/ingest"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/okian/specialscout/pkg/metrics"
)

// ErrNotStarted is returned by operations invoked before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the connection pool and the engine for the process lifetime.
type Service struct {
	mu sync.RWMutex

	// Core components
	backend repository.Backend
	engine  *ingest.Engine

	// Configuration
	driver         string
	sqlitePath     string
	busyTimeout    time.Duration
	postgresDSN    string
	maxOpenConns   int
	maxIdleConns   int
	acquireTimeout time.Duration

	// State
	started   bool
	startedAt time.Time
	applied   atomic.Int64
	failed    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStoreDriver selects the persistence adapter: sqlite, postgres or memory.
func WithStoreDriver(driver string) Option {
	return func(s *Service) {
		if driver != "" {
			s.driver = driver
		}
	}
}

// WithSQLite sets the database file and busy timeout of the SQLite adapter.
func WithSQLite(path string, busyTimeout time.Duration) Option {
	return func(s *Service) {
		if path != "" {
			s.sqlitePath = path
		}
		if busyTimeout > 0 {
			s.busyTimeout = busyTimeout
		}
	}
}

// WithPostgresDSN sets the Postgres connection string.
func WithPostgresDSN(dsn string) Option {
	return func(s *Service) {
		s.postgresDSN = dsn
	}
}

// WithPool sizes the connection pool of the selected adapter.
func WithPool(maxOpen, maxIdle int) Option {
	return func(s *Service) {
		if maxOpen > 0 {
			s.maxOpenConns = maxOpen
		}
		if maxIdle >= 0 {
			s.maxIdleConns = maxIdle
		}
	}
}

// WithAcquireTimeout bounds the wait for the team lock and a connection.
func WithAcquireTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.acquireTimeout = d
		}
	}
}

// WithBackend injects a ready store, bypassing driver selection.
func WithBackend(b repository.Backend) Option {
	return func(s *Service) {
		s.backend = b
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// FromConfig maps loaded configuration onto service options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithStoreDriver(cfg.StoreDriver),
		WithSQLite(cfg.SQLitePath, cfg.SQLiteBusyTimeout()),
		WithPostgresDSN(cfg.PostgresDSN),
		WithPool(cfg.MaxOpenConns, cfg.MaxIdleConns),
		WithAcquireTimeout(cfg.AcquireTimeout()),
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		driver:         config.DriverSQLite,
		sqlitePath:     "db.sqlite",
		busyTimeout:    5 * time.Second,
		maxOpenConns:   8,
		maxIdleConns:   4,
		acquireTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the store and builds the engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ingestion service...", logger.String("driver", s.driver))

	if s.backend == nil {
		backend, err := s.openBackend(ctx)
		if err != nil {
			return err
		}
		s.backend = backend
	}

	s.engine = ingest.NewEngine(s.backend,
		ingest.WithAcquireTimeout(s.acquireTimeout),
		ingest.WithLogger(s.logger.Named("ingest")),
	)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "ingestion service started",
		logger.String("driver", s.driver),
		logger.Int("maxOpenConns", s.maxOpenConns),
		logger.Duration("acquireTimeout", s.acquireTimeout),
	)
	return nil
}

func (s *Service) openBackend(ctx context.Context) (repository.Backend, error) {
	switch s.driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx,
			sqlite.WithPath(s.sqlitePath),
			sqlite.WithBusyTimeout(s.busyTimeout),
			sqlite.WithPool(s.maxOpenConns, s.maxIdleConns),
			sqlite.WithLogger(s.logger.Named("sqlite")),
		)
	case config.DriverPostgres:
		return postgres.Open(ctx,
			postgres.WithDSN(s.postgresDSN),
			postgres.WithPool(s.maxOpenConns, s.maxIdleConns),
			postgres.WithLogger(s.logger.Named("postgres")),
		)
	case config.DriverMemory:
		return repository.NewMemStore(ctx, repository.WithMaxConns(s.maxOpenConns)), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, s.driver)
	}
}

// Stop closes the store. A later Start reopens it from configuration.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping ingestion service...")
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store", logger.Error(err))
		}
		s.backend = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "ingestion service stopped")
}

func (s *Service) current() (*ingest.Engine, repository.Backend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.engine, s.backend, nil
}

// Ingest applies one submission.
func (s *Service) Ingest(ctx context.Context, submitter model.SubmitterID, rec model.Record) (model.TeamAggregate, error) {
	engine, _, err := s.current()
	if err != nil {
		return model.TeamAggregate{}, err
	}
	agg, err := engine.Apply(ctx, submitter, rec)
	if err != nil {
		s.failed.Add(1)
		return model.TeamAggregate{}, err
	}
	s.applied.Add(1)
	return agg, nil
}

// IngestBatch applies recs in order and returns how many were committed.
func (s *Service) IngestBatch(ctx context.Context, submitter model.SubmitterID, recs []model.Record) (int, error) {
	engine, _, err := s.current()
	if err != nil {
		return 0, err
	}
	n, err := engine.ApplyAll(ctx, submitter, recs)
	s.applied.Add(int64(n))
	if err != nil {
		s.failed.Add(1)
	}
	return n, err
}

// TeamAggregate returns one team's aggregate, or an error wrapping
// repository.ErrNotFound.
func (s *Service) TeamAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, error) {
	_, backend, err := s.current()
	if err != nil {
		return model.TeamAggregate{}, err
	}
	return backend.Aggregate(ctx, team)
}

// TeamAggregates returns every aggregate ordered by team.
func (s *Service) TeamAggregates(ctx context.Context) ([]model.TeamAggregate, error) {
	_, backend, err := s.current()
	if err != nil {
		return nil, err
	}
	return backend.Aggregates(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"storeDriver":    s.driver,
		"acquireTimeout": s.acquireTimeout.String(),
		"applied":        s.applied.Load(),
		"failed":         s.failed.Load(),
	}

	if s.started {
		stats["uptime"] = time.Since(s.startedAt).Round(time.Second).String()
		stats["lockedTeams"] = s.engine.Locks().Len()
		if all, err := s.backend.Aggregates(context.Background()); err == nil {
			stats["teamsTracked"] = len(all)
			metrics.UpdateTeamsTracked(len(all))
		}
	}

	return stats
}
