// Package sqlite is the default persistence adapter: a single SQLite file
// accessed through gorm.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-sqlite3"
	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store implements repository.Backend on SQLite.
type Store struct {
	path         string
	busyTimeout  time.Duration
	maxOpenConns int
	maxIdleConns int
	logger       logger.Logger

	promptIn  io.Reader
	promptOut io.Writer
	copyFile  func(src, dst string) error
	now       func() time.Time

	db    *gorm.DB
	sqlDB *sql.DB
}

var (
	_ repository.Backend = (*Store)(nil)
	_ repository.Unit    = (*unit)(nil)
)

// Open opens or creates the database and ensures the schema. A file that
// exists but is corrupt is backed up and replaced first; any other failure
// is returned as is.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	s := &Store{
		path:         "db.sqlite",
		busyTimeout:  5 * time.Second,
		maxOpenConns: 8,
		maxIdleConns: 4,
		promptIn:     os.Stdin,
		promptOut:    os.Stdout,
		copyFile:     copyFile,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("sqlite")
	}

	err := s.connect(ctx)
	if err == nil {
		return s, nil
	}
	if !isCorrupt(err) {
		return nil, err
	}
	if _, statErr := os.Stat(s.path); statErr != nil {
		return nil, err
	}

	s.logger.Warn(ctx, "database unusable, recovering", logger.String("path", s.path), logger.Error(err))
	if err := s.recoverFile(ctx); err != nil {
		return nil, err
	}
	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) dsn() string {
	return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_txlock=immediate",
		s.path, s.busyTimeout.Milliseconds())
}

// isCorrupt reports whether err means the file itself is damaged rather
// than temporarily unavailable.
func isCorrupt(err error) bool {
	if errors.Is(err, ErrCorrupt) {
		return true
	}
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code == sqlite3.ErrCorrupt || sqlErr.Code == sqlite3.ErrNotADB
	}
	return false
}

func (s *Store) connect(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(s.dsn()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormLog(s.logger),
	})
	if err != nil {
		if db != nil {
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
		}
		return fmt.Errorf("%w: %s: %w", ErrOpen, s.path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, s.path, err)
	}

	fail := func(err error) error {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: %s: %w", ErrOpen, s.path, err)
	}

	var check string
	if err := db.WithContext(ctx).Raw("PRAGMA quick_check").Scan(&check).Error; err != nil {
		return fail(err)
	}
	if check != "ok" {
		return fail(fmt.Errorf("%w: quick_check: %s", ErrCorrupt, check))
	}
	for _, stmt := range schema {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fail(err)
		}
	}

	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	sqlDB.SetMaxIdleConns(s.maxIdleConns)

	s.db, s.sqlDB = db, sqlDB
	s.logger.Info(ctx, "sqlite store ready",
		logger.String("path", s.path),
		logger.Int("maxOpenConns", s.maxOpenConns),
	)
	return nil
}

// Begin implements repository.Store. ctx bounds only the wait for a
// connection; the transaction itself is not tied to it.
func (s *Store) Begin(ctx context.Context) (repository.Unit, error) {
	conn, err := s.sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrAcquire, err)
	}

	work := context.WithoutCancel(ctx)
	sess := s.db.Session(&gorm.Session{NewDB: true, Context: work})
	sess.Statement.ConnPool = conn
	tx := sess.Begin()
	if tx.Error != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: begin: %w", repository.ErrAcquire, tx.Error)
	}
	return &unit{conn: conn, tx: tx}, nil
}

// Aggregate implements repository.AggregateReader.
func (s *Store) Aggregate(ctx context.Context, team model.Team) (model.TeamAggregate, error) {
	var row teamRow
	err := s.db.WithContext(ctx).Where("team = ?", int64(team)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TeamAggregate{}, repository.ErrNotFound
	}
	if err != nil {
		return model.TeamAggregate{}, err
	}
	return row.aggregate(), nil
}

// Aggregates implements repository.AggregateReader.
func (s *Store) Aggregates(ctx context.Context) ([]model.TeamAggregate, error) {
	var rows []teamRow
	if err := s.db.WithContext(ctx).Order("team").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.TeamAggregate, len(rows))
	for i := range rows {
		out[i] = rows[i].aggregate()
	}
	return out, nil
}

// Image returns the stored picture for team.
func (s *Store) Image(ctx context.Context, team model.Team) ([]byte, error) {
	var row imageRow
	err := s.db.WithContext(ctx).Where("team = ?", int64(team)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	return row.Img, err
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
