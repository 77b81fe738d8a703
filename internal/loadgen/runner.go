package loadgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/specialscout/pkg/logger"
)

const heartbeatPrefix = "specialscout-db"

// Run executes a complete load run: heartbeat, generation, submission and
// verification. It returns the statistics gathered so far even on error.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	if err := config.Validate(); err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "starting specialscout load run",
		logger.String("runId", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("teams", config.Teams),
		logger.Int("matches", config.Matches),
		logger.Int("pits", config.Pits),
		logger.Int("workers", config.Workers),
		logger.Int("mass", config.Mass),
		logger.String("timeout", config.Timeout.String()))

	client := NewHTTPClient(strings.TrimRight(config.BaseURL, "/"), config.Timeout, nil)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	// Step 2: Generate records
	subs, expected, err := generate(ctx, config, NewGenerator(config.Seed), stats)
	if err != nil {
		return stats, fmt.Errorf("record generation failed: %w", err)
	}

	// Step 3: Submit records concurrently
	if err := submit(ctx, config, client, subs, stats); err != nil {
		return stats, err
	}

	// Step 4: Read aggregates back and compare
	mismatches, err := verify(ctx, config, client, expected, stats)
	if err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	var failed error
	if stats.RequestsFailed > 0 {
		failed = fmt.Errorf("%d requests failed", stats.RequestsFailed)
	}
	if err := errors.Join(failed, mismatchError(mismatches)); err != nil {
		return stats, err
	}

	logger.Get().Info(ctx, "load run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service answers its heartbeat.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	banner, err := client.Heartbeat(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if !strings.HasPrefix(banner, heartbeatPrefix) {
		return fmt.Errorf("%w: unexpected heartbeat %q", ErrUnhealthy, banner)
	}

	logger.Get().Info(ctx, "service is healthy", logger.String("version", banner))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, recordsPerSecond float64

	if stats.Requests > 0 {
		successRate = float64(stats.Requests-stats.RequestsFailed) / float64(stats.Requests) * 100
	}
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.RecordsAccepted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("runId", stats.RunID),
		logger.Int("recordsGenerated", stats.RecordsGenerated),
		logger.Int64("requests", stats.Requests),
		logger.Int64("recordsAccepted", stats.RecordsAccepted),
		logger.Int64("requestsFailed", stats.RequestsFailed),
		logger.Int("teamsVerified", stats.TeamsVerified),
		logger.Int("mismatches", stats.Mismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("recordsPerSecond", recordsPerSecond))
}
