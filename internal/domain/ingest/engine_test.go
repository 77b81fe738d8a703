package ingest_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/ingest"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.opentelemetry.io/otel/trace/noop"
)

func init() {
	_ = logger.Init()
}

func newEngine(store repository.Store, opts ...ingest.Option) *ingest.Engine {
	opts = append([]ingest.Option{ingest.WithTracer(noop.NewTracerProvider().Tracer("test"))}, opts...)
	return ingest.NewEngine(store, opts...)
}

func firstMatch118() *model.MatchRecord {
	return &model.MatchRecord{
		Team:              118,
		DidTaxi:           true,
		AutoScoredUpper:   2,
		AutoScoredLower:   1,
		AutoShots:         3,
		TeleopScoredUpper: 3,
		TeleopShots:       4,
		Climb:             3,
	}
}

func TestEngineApply(t *testing.T) {
	Convey("Given an engine over an empty store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		defer store.Close()
		engine := newEngine(store)

		Convey("When team 118 submits two matches", func() {
			first, err := engine.Apply(ctx, 1, firstMatch118())
			So(err, ShouldBeNil)
			So(first.Matches, ShouldEqual, 1)
			So(first.ScoreAccum, ShouldEqual, 33)
			So(first.Climb, ShouldEqual, 3)
			So(first.TaxiTrue, ShouldBeTrue)

			second, err := engine.Apply(ctx, 2, &model.MatchRecord{Team: 118, Climb: 1})
			So(err, ShouldBeNil)

			Convey("Then the stored aggregate reflects both", func() {
				stored, err := store.Aggregate(ctx, 118)
				So(err, ShouldBeNil)
				So(cmp.Diff(second, stored), ShouldBeEmpty)
				So(stored.Matches, ShouldEqual, 2)
				So(stored.ScoreAccum, ShouldEqual, 39)
				So(stored.Climb, ShouldEqual, 3)
				So(stored.TaxiTrue, ShouldBeTrue)
			})

			Convey("Then each submission is kept raw with its submitter", func() {
				subs := store.Submissions()
				So(subs, ShouldHaveLength, 2)
				So(subs[0].Submitter, ShouldEqual, model.SubmitterID(1))
				So(subs[1].Submitter, ShouldEqual, model.SubmitterID(2))
			})
		})

		Convey("When team 202 is first seen through a pit report", func() {
			agg, err := engine.Apply(ctx, 7, &model.PitRecord{
				Team:              202,
				CanShootAutoUpper: true,
				Climb:             2,
				Picture:           "https://img.example/202.png",
			})

			Convey("Then the aggregate is seeded without match data", func() {
				So(err, ShouldBeNil)
				So(agg.Matches, ShouldEqual, 0)
				So(agg.AutoShoot, ShouldBeTrue)
				So(agg.ScoreAccum, ShouldEqual, 0)
				So(agg.Climb, ShouldEqual, 0)
			})

			Convey("Then the picture is stored and a later report replaces it", func() {
				img, ok := store.Image(202)
				So(ok, ShouldBeTrue)
				So(string(img), ShouldEqual, "https://img.example/202.png")

				_, err := engine.Apply(ctx, 7, &model.PitRecord{Team: 202, Picture: "v2"})
				So(err, ShouldBeNil)
				img, _ = store.Image(202)
				So(string(img), ShouldEqual, "v2")

				stored, _ := store.Aggregate(ctx, 202)
				So(stored.AutoShoot, ShouldBeTrue)
			})
		})

		Convey("When the same match is submitted twice", func() {
			_, err := engine.Apply(ctx, 1, firstMatch118())
			So(err, ShouldBeNil)
			agg, err := engine.Apply(ctx, 1, firstMatch118())
			So(err, ShouldBeNil)

			Convey("Then it is counted twice", func() {
				So(agg.Matches, ShouldEqual, 2)
				So(agg.ScoreAccum, ShouldEqual, 66)
				So(store.Submissions(), ShouldHaveLength, 2)
			})
		})

		Convey("When the record is nil", func() {
			_, err := engine.Apply(ctx, 1, nil)

			Convey("Then it is reported as malformed", func() {
				So(errors.Is(err, model.ErrMalformedPayload), ShouldBeTrue)
				So(ingest.KindOf(err), ShouldEqual, ingest.KindMalformedPayload)
			})
		})
	})
}

func TestEngineConcurrency(t *testing.T) {
	Convey("Given many concurrent submissions for one team", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithMaxConns(4))
		defer store.Close()
		engine := newEngine(store, ingest.WithAcquireTimeout(10*time.Second))

		const n = 64
		f := gofakeit.New(42)
		recs := make([]*model.MatchRecord, n)
		var want int64
		for i := range recs {
			recs[i] = &model.MatchRecord{
				Team:              118,
				DidTaxi:           f.Bool(),
				AutoScoredUpper:   int16(f.IntRange(0, 4)),
				TeleopScoredLower: int16(f.IntRange(0, 12)),
				Climb:             int8(f.IntRange(-1, 3)),
			}
			want += recs[i].Score()
		}

		var wg sync.WaitGroup
		var failures atomic.Int32
		for _, rec := range recs {
			wg.Add(1)
			go func(rec *model.MatchRecord) {
				defer wg.Done()
				if _, err := engine.Apply(ctx, 1, rec); err != nil {
					failures.Add(1)
				}
			}(rec)
		}
		wg.Wait()

		Convey("Then no update is lost", func() {
			So(failures.Load(), ShouldEqual, 0)
			agg, err := store.Aggregate(ctx, 118)
			So(err, ShouldBeNil)
			So(agg.Matches, ShouldEqual, n)
			So(agg.ScoreAccum, ShouldEqual, want)
			So(engine.Locks().Len(), ShouldEqual, 0)
		})
	})
}

func TestEngineTimeouts(t *testing.T) {
	Convey("Given an engine with a short acquire timeout", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithMaxConns(1))
		defer store.Close()
		engine := newEngine(store, ingest.WithAcquireTimeout(30*time.Millisecond))

		Convey("When another holder keeps the team locked", func() {
			release, err := engine.Locks().Lock(ctx, 118)
			So(err, ShouldBeNil)
			defer release()

			_, err = engine.Apply(ctx, 1, firstMatch118())

			Convey("Then the submission fails with a connection timeout", func() {
				So(errors.Is(err, ingest.ErrConnectionTimeout), ShouldBeTrue)
				So(ingest.KindOf(err), ShouldEqual, ingest.KindConnectionTimeout)
				So(store.Submissions(), ShouldBeEmpty)
			})

			Convey("Then other teams are not blocked", func() {
				_, err := engine.Apply(ctx, 1, &model.MatchRecord{Team: 254})
				So(err, ShouldBeNil)
			})
		})

		Convey("When every connection is held", func() {
			held, err := store.Begin(ctx)
			So(err, ShouldBeNil)
			defer held.Rollback(ctx)

			_, err = engine.Apply(ctx, 1, firstMatch118())

			Convey("Then the submission fails with a connection timeout", func() {
				So(ingest.KindOf(err), ShouldEqual, ingest.KindConnectionTimeout)
				So(engine.Locks().Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestEnginePersistenceFailures(t *testing.T) {
	Convey("Given a store that fails on a chosen operation", t, func() {
		ctx := context.Background()
		var failOn atomic.Value
		failOn.Store(repository.Op(""))
		boom := errors.New("disk I/O error")

		store := repository.NewMemStore(ctx, repository.WithFaultHook(func(_ context.Context, op repository.Op) error {
			if op == failOn.Load().(repository.Op) {
				return boom
			}
			return nil
		}))
		defer store.Close()
		engine := newEngine(store)

		for _, op := range []repository.Op{
			repository.OpInsertRaw,
			repository.OpFetchAggregate,
			repository.OpUpsertAggregate,
			repository.OpUpsertImage,
			repository.OpCommit,
		} {
			failOn.Store(op)
			_, err := engine.Apply(ctx, 3, &model.PitRecord{Team: 202, Picture: "p"})

			So(errors.Is(err, ingest.ErrPersistence), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)

			var ierr *ingest.Error
			So(errors.As(err, &ierr), ShouldBeTrue)
			So(ierr.Team, ShouldEqual, model.Team(202))
		}

		Convey("Then nothing was committed", func() {
			So(store.Submissions(), ShouldBeEmpty)
			_, err := store.Aggregate(ctx, 202)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, ok := store.Image(202)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestEngineIgnoresCancellationOnceStarted(t *testing.T) {
	Convey("Given a client that disconnects mid-unit", t, func() {
		reqCtx, cancel := context.WithCancel(context.Background())
		store := repository.NewMemStore(context.Background(), repository.WithFaultHook(func(ctx context.Context, op repository.Op) error {
			if op == repository.OpInsertRaw {
				cancel()
			}
			return ctx.Err()
		}))
		defer store.Close()
		engine := newEngine(store)

		_, err := engine.Apply(reqCtx, 1, firstMatch118())

		Convey("Then the unit still commits", func() {
			So(err, ShouldBeNil)
			So(reqCtx.Err(), ShouldNotBeNil)
			agg, err := store.Aggregate(context.Background(), 118)
			So(err, ShouldBeNil)
			So(agg.Matches, ShouldEqual, 1)
		})
	})
}

func TestEngineApplyAll(t *testing.T) {
	Convey("Given a batch whose third record cannot be stored", t, func() {
		ctx := context.Background()
		var inserts atomic.Int32
		store := repository.NewMemStore(ctx, repository.WithFaultHook(func(_ context.Context, op repository.Op) error {
			if op == repository.OpInsertRaw && inserts.Add(1) == 3 {
				return errors.New("constraint failed")
			}
			return nil
		}))
		defer store.Close()
		engine := newEngine(store)

		recs := []model.Record{
			&model.MatchRecord{Team: 1, Climb: 0},
			&model.MatchRecord{Team: 1, Climb: 1},
			&model.MatchRecord{Team: 2},
			&model.PitRecord{Team: 3},
		}
		applied, err := engine.ApplyAll(ctx, 5, recs)

		Convey("Then the records before it stay committed", func() {
			So(applied, ShouldEqual, 2)

			var batchErr *ingest.BatchError
			So(errors.As(err, &batchErr), ShouldBeTrue)
			So(batchErr.Index, ShouldEqual, 2)
			So(err.Error(), ShouldStartWith, "record 2: ")
			So(ingest.KindOf(err), ShouldEqual, ingest.KindPersistence)

			agg, err := store.Aggregate(ctx, 1)
			So(err, ShouldBeNil)
			So(agg.Matches, ShouldEqual, 2)
			_, err = store.Aggregate(ctx, 3)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a batch that applies cleanly", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		defer store.Close()

		applied, err := newEngine(store).ApplyAll(ctx, 5, []model.Record{
			&model.PitRecord{Team: 9}, &model.MatchRecord{Team: 9, DidTaxi: true},
		})

		So(err, ShouldBeNil)
		So(applied, ShouldEqual, 2)
		agg, _ := store.Aggregate(ctx, 9)
		So(agg.Matches, ShouldEqual, 1)
		So(agg.Taxi, ShouldBeFalse)
		So(agg.TaxiTrue, ShouldBeTrue)
	})
}
