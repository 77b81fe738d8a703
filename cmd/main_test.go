package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/specialscout/internal/adapters/http/api"
	service "github.com/okian/specialscout/internal/app"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/loadgen"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
)

func init() {
	_ = logger.Init()
}

func setenv(kv map[string]string) func() {
	for k, v := range kv {
		_ = os.Setenv(k, v)
	}
	return func() {
		for k := range kv {
			_ = os.Unsetenv(k)
		}
	}
}

func command(app *cli.App, name string) *cli.Command {
	for _, c := range app.Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			defer setenv(map[string]string{
				"SCOUT_ADDR":               ":8080",
				"SCOUT_STORE_DRIVER":       "memory",
				"SCOUT_ACQUIRE_TIMEOUT_MS": "250",
			})()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := setup(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
				convey.So(cfg.AcquireTimeout(), convey.ShouldEqual, 250*time.Millisecond)
			})
		})

		convey.Convey("When testing the command set", func() {
			app := newApp()

			convey.Convey("Then serve is the default and every command is present", func() {
				convey.So(app.Name, convey.ShouldEqual, "specialscout")
				convey.So(app.Action, convey.ShouldNotBeNil)
				for _, name := range []string{"serve", "export", "loadgen"} {
					convey.So(command(app, name), convey.ShouldNotBeNil)
				}
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := service.New(service.WithStoreDriver(config.DriverMemory))
			server := api.NewServer(svc, svc, api.WithVersion(version))
			convey.So(server, convey.ShouldNotBeNil)
			convey.So(server.Routes(context.Background()), convey.ShouldNotBeNil)
		})
	})
}

func TestExportCommand(t *testing.T) {
	convey.Convey("Given a memory store configuration", t, func() {
		defer setenv(map[string]string{"SCOUT_STORE_DRIVER": "memory"})()
		out := filepath.Join(t.TempDir(), "teams.xlsx")

		app := newApp()
		var buf bytes.Buffer
		app.Writer = &buf

		convey.Convey("When export runs", func() {
			err := app.RunContext(context.Background(), []string{"specialscout", "export", "--out", out})

			convey.Convey("Then an empty workbook is written", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(buf.String(), convey.ShouldContainSubstring, "exported 0 teams")

				f, err := excelize.OpenFile(out)
				convey.So(err, convey.ShouldBeNil)
				defer f.Close()
				rows, err := f.GetRows("team_details")
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When the store driver is unknown", func() {
			defer setenv(map[string]string{"SCOUT_STORE_DRIVER": "mongo"})()

			convey.Convey("Then serve fails before listening", func() {
				err := newApp().RunContext(context.Background(), []string{"specialscout", "serve"})
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loadgen gets an unusable setting", func() {
			err := newApp().RunContext(context.Background(), []string{"specialscout", "loadgen", "--teams", "0"})

			convey.Convey("Then it fails without contacting the service", func() {
				convey.So(errors.Is(err, loadgen.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoadgenFlags(t *testing.T) {
	convey.Convey("Given loadgen flags", t, func() {
		app := newApp()
		var got *loadgen.Config
		command(app, "loadgen").Action = func(c *cli.Context) error {
			got = loadgenConfig(c)
			return nil
		}

		convey.Convey("When only some are set", func() {
			err := app.RunContext(context.Background(), []string{
				"specialscout", "loadgen",
				"--url", "http://scout:9000", "--teams", "3", "--mass", "10", "--rate", "2.5", "--seed", "42", "--timeout", "2s",
			})

			convey.Convey("Then the rest keep their defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				d := loadgen.DefaultConfig()
				convey.So(got.BaseURL, convey.ShouldEqual, "http://scout:9000")
				convey.So(got.Teams, convey.ShouldEqual, 3)
				convey.So(got.Mass, convey.ShouldEqual, 10)
				convey.So(got.Rate, convey.ShouldEqual, 2.5)
				convey.So(got.Seed, convey.ShouldEqual, uint64(42))
				convey.So(got.Timeout, convey.ShouldEqual, 2*time.Second)
				convey.So(got.Matches, convey.ShouldEqual, d.Matches)
				convey.So(got.Workers, convey.ShouldEqual, d.Workers)
				convey.So(got.FirstTeam, convey.ShouldEqual, d.FirstTeam)
			})
		})
	})
}

func TestServiceMetricsUpdater(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		svc := service.New(service.WithStoreDriver(config.DriverMemory))
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then the updater returns once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
		})
	})
}
