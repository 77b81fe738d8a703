package ingest

import (
	"context"
	"sync"

	"github.com/okian/specialscout/internal/domain/model"
	"golang.org/x/sync/semaphore"
)

// TeamLocks is a keyed mutex. Holders of different teams never contend;
// entries are dropped once no goroutine holds or waits for them.
type TeamLocks struct {
	mu    sync.Mutex
	locks map[model.Team]*teamLock
}

type teamLock struct {
	sem  *semaphore.Weighted
	refs int
}

// NewTeamLocks returns an empty lock table.
func NewTeamLocks() *TeamLocks {
	return &TeamLocks{locks: make(map[model.Team]*teamLock)}
}

// Lock blocks until team is free or ctx is done. The returned release
// func is safe to call more than once.
func (l *TeamLocks) Lock(ctx context.Context, team model.Team) (func(), error) {
	l.mu.Lock()
	tl, ok := l.locks[team]
	if !ok {
		tl = &teamLock{sem: semaphore.NewWeighted(1)}
		l.locks[team] = tl
	}
	tl.refs++
	l.mu.Unlock()

	if err := tl.sem.Acquire(ctx, 1); err != nil {
		l.unref(team, tl)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			tl.sem.Release(1)
			l.unref(team, tl)
		})
	}, nil
}

func (l *TeamLocks) unref(team model.Team, tl *teamLock) {
	l.mu.Lock()
	tl.refs--
	if tl.refs == 0 {
		delete(l.locks, team)
	}
	l.mu.Unlock()
}

// Len returns the number of teams currently locked or awaited.
func (l *TeamLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
