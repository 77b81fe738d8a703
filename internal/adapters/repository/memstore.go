package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/metrics"
)

// Submission is a raw record as kept by the MemStore.
type Submission struct {
	Submitter model.SubmitterID
	Record    model.Record
}

// MemStore is an in-memory Backend. Unit writes are buffered and become
// visible together on Commit.
type MemStore struct {
	mu          sync.RWMutex
	aggregates  map[model.Team]model.TeamAggregate
	images      map[model.Team][]byte
	submissions []Submission

	maxConns              int
	conns                 chan struct{}
	hook                  func(ctx context.Context, op Op) error
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemStore constructs a MemStore with configuration options.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		aggregates:            make(map[model.Team]model.TeamAggregate),
		images:                make(map[model.Team][]byte),
		maxConns:              8,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.conns = make(chan struct{}, s.maxConns)

	s.startMetricsUpdater(ctx)
	return s
}

// Begin implements Store.
func (s *MemStore) Begin(ctx context.Context) (Unit, error) {
	select {
	case s.conns <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrAcquire, ctx.Err())
	case <-s.stopChan:
		return nil, fmt.Errorf("%w: store closed", ErrAcquire)
	}
	return &memUnit{store: s, images: make(map[model.Team][]byte)}, nil
}

// Aggregate implements AggregateReader.
func (s *MemStore) Aggregate(_ context.Context, team model.Team) (model.TeamAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg, ok := s.aggregates[team]
	if !ok {
		return model.TeamAggregate{}, ErrNotFound
	}
	return agg, nil
}

// Aggregates implements AggregateReader.
func (s *MemStore) Aggregates(_ context.Context) ([]model.TeamAggregate, error) {
	s.mu.RLock()
	out := make([]model.TeamAggregate, 0, len(s.aggregates))
	for _, agg := range s.aggregates {
		out = append(out, agg)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.TeamAggregate) int {
		switch {
		case a.Team < b.Team:
			return -1
		case a.Team > b.Team:
			return 1
		}
		return 0
	})
	return out, nil
}

// Submissions returns a copy of every committed raw submission in commit order.
func (s *MemStore) Submissions() []Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.submissions)
}

// Image returns the stored picture for team.
func (s *MemStore) Image(team model.Team) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[team]
	return img, ok
}

// Close stops the background metrics updater.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.mu.RLock()
				n := len(s.aggregates)
				s.mu.RUnlock()
				metrics.UpdateTeamsTracked(n)
			}
		}
	}()
}

// memUnit buffers writes until Commit.
type memUnit struct {
	store *MemStore
	done  bool

	submissions []Submission
	aggregates  []model.TeamAggregate
	images      map[model.Team][]byte
}

func (u *memUnit) check(ctx context.Context, op Op) error {
	if u.done {
		return ErrUnitClosed
	}
	if u.store.hook != nil {
		if err := u.store.hook(ctx, op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (u *memUnit) InsertRaw(ctx context.Context, submitter model.SubmitterID, rec model.Record) error {
	if err := u.check(ctx, OpInsertRaw); err != nil {
		return err
	}
	u.submissions = append(u.submissions, Submission{Submitter: submitter, Record: rec})
	return nil
}

func (u *memUnit) FetchAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, bool, error) {
	if err := u.check(ctx, OpFetchAggregate); err != nil {
		return model.TeamAggregate{}, false, err
	}
	for i := len(u.aggregates) - 1; i >= 0; i-- {
		if u.aggregates[i].Team == team {
			return u.aggregates[i], true, nil
		}
	}
	u.store.mu.RLock()
	defer u.store.mu.RUnlock()
	agg, ok := u.store.aggregates[team]
	return agg, ok, nil
}

func (u *memUnit) UpsertAggregate(ctx context.Context, agg model.TeamAggregate) error {
	if err := u.check(ctx, OpUpsertAggregate); err != nil {
		return err
	}
	u.aggregates = append(u.aggregates, agg)
	return nil
}

func (u *memUnit) UpsertImage(ctx context.Context, team model.Team, img []byte) error {
	if err := u.check(ctx, OpUpsertImage); err != nil {
		return err
	}
	u.images[team] = slices.Clone(img)
	return nil
}

func (u *memUnit) Commit(ctx context.Context) error {
	if err := u.check(ctx, OpCommit); err != nil {
		return err
	}
	s := u.store
	s.mu.Lock()
	s.submissions = append(s.submissions, u.submissions...)
	for _, agg := range u.aggregates {
		s.aggregates[agg.Team] = agg
	}
	for team, img := range u.images {
		s.images[team] = img
	}
	s.mu.Unlock()

	u.finish()
	return nil
}

func (u *memUnit) Rollback(_ context.Context) error {
	if u.done {
		return nil
	}
	u.finish()
	return nil
}

func (u *memUnit) finish() {
	u.done = true
	<-u.store.conns
}
