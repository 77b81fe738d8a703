package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	service "github.com/okian/specialscout/internal/app"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/domain/ingest"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports the sqlite driver and is not started", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["storeDriver"], ShouldEqual, config.DriverSQLite)
		})
	})

	Convey("Given options built from configuration", t, func() {
		cfg := config.New()
		cfg.StoreDriver = config.DriverMemory
		cfg.AcquireTimeoutMS = 250
		svc := service.New(service.FromConfig(cfg)...)

		Convey("Then they are applied", func() {
			stats := svc.GetStats()
			So(stats["storeDriver"], ShouldEqual, config.DriverMemory)
			So(stats["acquireTimeout"], ShouldEqual, "250ms")
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a memory-backed service", t, func() {
		svc := service.New(service.WithStoreDriver(config.DriverMemory))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("Operations before Start fail", func() {
			_, err := svc.Ingest(ctx, 1, &model.MatchRecord{Team: 1})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.TeamAggregates(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["teamsTracked"], ShouldEqual, 0)
			})

			Convey("And stopping marks it stopped", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})

	Convey("Given an unknown driver", t, func() {
		svc := service.New(service.WithStoreDriver("cassandra"))
		err := svc.Start(context.Background())

		Convey("Then Start fails with an invalid configuration", func() {
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

func TestService_Ingest(t *testing.T) {
	Convey("Given a started service over an injected store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		svc := service.New(service.WithBackend(store))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When team 118 submits two matches", func() {
			first := &model.MatchRecord{Team: 118, DidTaxi: true, AutoScoredUpper: 2, AutoScoredLower: 1, TeleopScoredUpper: 3, Climb: 3}
			agg, err := svc.Ingest(ctx, 7, first)
			So(err, ShouldBeNil)
			So(agg.ScoreAccum, ShouldEqual, 33)

			agg, err = svc.Ingest(ctx, 7, &model.MatchRecord{Team: 118, Climb: 1})
			So(err, ShouldBeNil)

			Convey("Then the aggregate and the counters reflect both", func() {
				So(agg.Matches, ShouldEqual, 2)
				So(agg.ScoreAccum, ShouldEqual, 39)
				So(agg.Climb, ShouldEqual, 3)

				got, err := svc.TeamAggregate(ctx, 118)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, agg)
				So(svc.GetStats()["applied"], ShouldEqual, int64(2))
				So(store.Submissions(), ShouldHaveLength, 2)
			})
		})

		Convey("When a batch fails part way", func() {
			recs := []model.Record{
				&model.MatchRecord{Team: 1},
				&model.PitRecord{Team: 2},
				nil,
				&model.MatchRecord{Team: 3},
			}
			n, err := svc.IngestBatch(ctx, 3, recs)

			Convey("Then earlier records stay and the index is reported", func() {
				So(n, ShouldEqual, 2)
				var batchErr *ingest.BatchError
				So(errors.As(err, &batchErr), ShouldBeTrue)
				So(batchErr.Index, ShouldEqual, 2)
				So(ingest.KindOf(err), ShouldEqual, ingest.KindMalformedPayload)

				all, err := svc.TeamAggregates(ctx)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(svc.GetStats()["failed"], ShouldEqual, int64(1))
			})
		})

		Convey("Unknown teams are not found", func() {
			_, err := svc.TeamAggregate(ctx, 9999)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}
