package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/specialscout/internal/adapters/http/api"
	service "github.com/okian/specialscout/internal/app"
	"github.com/okian/specialscout/internal/config"
	"github.com/okian/specialscout/internal/export"
	"github.com/okian/specialscout/internal/loadgen"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/okian/specialscout/pkg/metrics"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.0.0"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		// Use stderr since the logger may not be initialized
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "specialscout",
		Usage:   "robotics scouting ingestion service",
		Version: version,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP ingestion service",
				Action: serve,
			},
			{
				Name:  "export",
				Usage: "write every team aggregate to a spreadsheet",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "team_details.xlsx", Usage: "output file"},
				},
				Action: exportAction,
			},
			{
				Name:   "loadgen",
				Usage:  "submit synthetic records to a running service and verify the aggregates",
				Flags:  loadgenFlags(),
				Action: loadgenAction,
			},
		},
	}
}

// setup loads configuration and initializes logging from it.
func setup(ctx context.Context) (*config.Config, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}

func newService(cfg *config.Config) *service.Service {
	return service.New(append(service.FromConfig(cfg), service.WithLogger(logger.Get()))...)
}

func serve(c *cli.Context) error {
	ctx := c.Context
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()
	loggerInstance := logger.Get()

	shutdownTracing, err := service.InitTracing(ctx, version, cfg.TraceStdout, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			loggerInstance.Warn(ctx, "tracing shutdown failed", logger.Error(err))
		}
	}()

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	handler := api.NewServer(svc, svc,
		api.WithVersion(version),
		api.WithMaxBodyBytes(cfg.MaxBodyBytes),
		api.WithLogger(loggerInstance.Named("http")),
	).Routes(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Start system metrics updater
	g.Go(func() error {
		metrics.RunSystemCollector(gctx)
		return nil
	})

	// Start service metrics updater
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	// Start the HTTP server
	g.Go(func() error {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	// Wait for shutdown signal or a failed server
	g.Go(func() error {
		<-gctx.Done()
		loggerInstance.Info(ctx, "shutting down server...")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	loggerInstance.Info(ctx, "server stopped")
	return err
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats refreshes the teams-tracked gauge as a side effect.
			_ = svc.GetStats()
		}
	}
}

func exportAction(c *cli.Context) error {
	ctx := c.Context
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	svc := newService(cfg)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	n, err := export.ToFile(ctx, svc, c.String("out"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "exported %d teams to %s\n", n, c.String("out"))
	return nil
}

func loadgenFlags() []cli.Flag {
	d := loadgen.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{Name: "url", Value: d.BaseURL, Usage: "base URL of the service"},
		&cli.IntFlag{Name: "teams", Value: d.Teams, Usage: "number of distinct teams"},
		&cli.Int64Flag{Name: "first-team", Value: d.FirstTeam, Usage: "team number of the first team"},
		&cli.IntFlag{Name: "matches", Value: d.Matches, Usage: "match records per team"},
		&cli.IntFlag{Name: "pits", Value: d.Pits, Usage: "pit records per team"},
		&cli.IntFlag{Name: "workers", Value: d.Workers, Usage: "concurrent submitters"},
		&cli.Float64Flag{Name: "rate", Usage: "requests per second, 0 for unlimited"},
		&cli.Uint64Flag{Name: "seed", Usage: "generator seed, 0 for random"},
		&cli.IntFlag{Name: "mass", Usage: "records per /dump_resps_mass request, 0 to post one by one"},
		&cli.DurationFlag{Name: "timeout", Value: d.Timeout, Usage: "HTTP request timeout"},
		&cli.BoolFlag{Name: "verbose", Usage: "log every failed request and mismatch"},
	}
}

func loadgenConfig(c *cli.Context) *loadgen.Config {
	return &loadgen.Config{
		BaseURL:   c.String("url"),
		Teams:     c.Int("teams"),
		FirstTeam: c.Int64("first-team"),
		Matches:   c.Int("matches"),
		Pits:      c.Int("pits"),
		Workers:   c.Int("workers"),
		Rate:      c.Float64("rate"),
		Seed:      c.Uint64("seed"),
		Mass:      c.Int("mass"),
		Timeout:   c.Duration("timeout"),
		Verbose:   c.Bool("verbose"),
	}
}

func loadgenAction(c *cli.Context) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	_, err := loadgen.Run(c.Context, loadgenConfig(c))
	return err
}
