package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/specialscout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":80")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
			convey.So(cfg.SQLitePath, convey.ShouldEqual, "db.sqlite")
			convey.So(cfg.AcquireTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.SQLiteBusyTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single bad setting", t, func() {
		cases := map[string]func(*config.Config){
			"addr must not be empty":     func(c *config.Config) { c.Addr = "" },
			"unknown store_driver":       func(c *config.Config) { c.StoreDriver = "mysql" },
			"postgres_dsn is required":   func(c *config.Config) { c.StoreDriver = config.DriverPostgres },
			"sqlite_path must not be":    func(c *config.Config) { c.SQLitePath = "" },
			"acquire_timeout_ms must be": func(c *config.Config) { c.AcquireTimeoutMS = 0 },
			"max_open_conns must be":     func(c *config.Config) { c.MaxOpenConns = -1 },
			"max_body_bytes must be":     func(c *config.Config) { c.MaxBodyBytes = 0 },
		}

		for msg, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, msg)
		}

		convey.Convey("The memory driver needs no further settings", func() {
			cfg := config.New()
			cfg.StoreDriver = config.DriverMemory
			cfg.SQLitePath = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
