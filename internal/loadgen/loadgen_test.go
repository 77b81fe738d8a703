package loadgen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/specialscout/internal/adapters/http/api"
	service "github.com/okian/specialscout/internal/app"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	svc := service.New(service.WithStoreDriver(config.DriverMemory), service.WithPool(4, 4))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(svc.Stop)
	srv := httptest.NewServer(api.NewServer(svc, svc, api.WithVersion("1.0.0")).Routes(ctx))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *Config {
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.Teams = 4
	cfg.Matches = 6
	cfg.Pits = 1
	cfg.Workers = 4
	cfg.Seed = 2022
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		fixed := func() time.Time { return time.Unix(1650000000, 0) }
		a, b := NewGenerator(7), NewGenerator(7)
		a.now, b.now = fixed, fixed

		Convey("They produce the same records", func() {
			So(*a.Match(118, 1), ShouldResemble, *b.Match(118, 1))
			So(*a.Pit(118), ShouldResemble, *b.Pit(118))
		})

		Convey("Match records carry the team and stay in range", func() {
			for i := range 50 {
				m := a.Match(254, i+1)
				So(m.Team, ShouldEqual, 254)
				So(m.MatchNumber, ShouldEqual, i+1)
				So(m.Climb, ShouldBeBetweenOrEqual, -1, 3)
				So(m.TeleopShots, ShouldBeGreaterThanOrEqualTo, m.TeleopScoredUpper+m.TeleopScoredLower)
			}
		})
	})

	Convey("Given a generated run", t, func() {
		cfg := testConfig("http://unused")
		stats := &Stats{}
		subs, expected, err := generate(context.Background(), cfg, NewGenerator(cfg.Seed), stats)
		So(err, ShouldBeNil)

		Convey("Every team gets its matches and pits", func() {
			So(subs, ShouldHaveLength, cfg.Teams*(cfg.Matches+cfg.Pits))
			So(stats.RecordsGenerated, ShouldEqual, len(subs))
			So(expected, ShouldHaveLength, cfg.Teams)
			So(expected[0].Team, ShouldEqual, model.Team(DefaultFirstTeam))

			var pits int
			score := map[model.Team]int64{}
			for _, s := range subs {
				model.Dispatch(s.Record,
					func(m *model.MatchRecord) struct{} { score[m.TeamNumber()] += m.Score(); return struct{}{} },
					func(*model.PitRecord) struct{} { pits++; return struct{}{} })
			}
			So(pits, ShouldEqual, cfg.Teams*cfg.Pits)
			for _, e := range expected {
				So(e.Matches, ShouldEqual, cfg.Matches)
				So(e.ScoreAccum, ShouldEqual, score[e.Team])
			}
		})

		Convey("Mass planning chunks in order", func() {
			jobs := plan(subs, 4)
			So(jobs, ShouldHaveLength, 7)
			So(jobs[6].records, ShouldHaveLength, 4)
			So(jobs[0].records[0], ShouldEqual, subs[0].Record)
			So(jobs[0].submitter, ShouldEqual, subs[0].Submitter)

			single := plan(subs, 0)
			So(single, ShouldHaveLength, len(subs))
			So(single[3].single, ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		srv := newServer(t)
		ctx := context.Background()

		Convey("When records are posted one by one", func() {
			stats, err := Run(ctx, testConfig(srv.URL))

			Convey("Then every aggregate verifies", func() {
				So(err, ShouldBeNil)
				So(stats.RunID, ShouldNotBeEmpty)
				So(stats.Requests, ShouldEqual, 28)
				So(stats.RecordsAccepted, ShouldEqual, 28)
				So(stats.RequestsFailed, ShouldEqual, 0)
				So(stats.TeamsVerified, ShouldEqual, 4)
			})

			Convey("Then replaying the same run double counts and fails verification", func() {
				stats, err := Run(ctx, testConfig(srv.URL))
				So(errors.Is(err, ErrMismatch), ShouldBeTrue)
				So(stats.Mismatches, ShouldEqual, 4)
			})
		})

		Convey("When records are posted in mass chunks at a fixed rate", func() {
			cfg := testConfig(srv.URL)
			cfg.Mass = 5
			cfg.Rate = 200
			cfg.FirstTeam = 5000
			stats, err := Run(ctx, cfg)

			Convey("Then the aggregates still verify", func() {
				So(err, ShouldBeNil)
				So(stats.Requests, ShouldEqual, 6)
				So(stats.RecordsAccepted, ShouldEqual, 28)
			})
		})
	})

	Convey("Given a service that is down", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := Run(context.Background(), testConfig(srv.URL))

		Convey("Then the run stops at the heartbeat", func() {
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
			var se *StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Status, ShouldEqual, http.StatusServiceUnavailable)
		})
	})

	Convey("Invalid configuration is rejected before any request", t, func() {
		cfg := testConfig("http://127.0.0.1:1")
		cfg.Workers = 0
		_, err := Run(context.Background(), cfg)
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})
}
