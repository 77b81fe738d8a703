package loadgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/specialscout/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Mismatch describes one team whose aggregate disagrees with what was sent.
type Mismatch struct {
	Expectation
	GotMatches    int64
	GotScoreAccum int64
	Err           error
}

func (m Mismatch) String() string {
	if m.Err != nil {
		return fmt.Sprintf("team %d: %v", m.Team, m.Err)
	}
	return fmt.Sprintf("team %d: matches %d (want %d), score_accum %d (want %d)",
		m.Team, m.GotMatches, m.Matches, m.GotScoreAccum, m.ScoreAccum)
}

// verify reads every expected team back and compares its counters. Teams
// with no records at all are skipped.
func verify(ctx context.Context, config *Config, client *HTTPClient, expected []Expectation, stats *Stats) ([]Mismatch, error) {
	logger.Get().Info(ctx, "verifying aggregates", logger.Int("teams", len(expected)))

	results := make([]*Mismatch, len(expected))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, exp := range expected {
		if config.Matches == 0 && config.Pits == 0 {
			continue
		}
		g.Go(func() error {
			agg, err := client.TeamDetails(gctx, exp.Team)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				results[i] = &Mismatch{Expectation: exp, Err: err}
				return nil
			}
			if agg.Matches != exp.Matches || agg.ScoreAccum != exp.ScoreAccum {
				results[i] = &Mismatch{Expectation: exp, GotMatches: agg.Matches, GotScoreAccum: agg.ScoreAccum}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("verification aborted: %w", err)
	}

	var mismatches []Mismatch
	for _, m := range results {
		if m != nil {
			mismatches = append(mismatches, *m)
		}
	}
	stats.TeamsVerified = len(expected) - len(mismatches)
	stats.Mismatches = len(mismatches)

	for i, m := range mismatches {
		if !config.Verbose && i >= maxLoggedMismatches {
			break
		}
		logger.Get().Warn(ctx, "aggregate mismatch", logger.String("detail", m.String()))
	}
	if len(mismatches) == 0 {
		logger.Get().Info(ctx, "all aggregates verified", logger.Int("teams", stats.TeamsVerified))
	}
	return mismatches, nil
}

const maxLoggedMismatches = 10

func mismatchError(mismatches []Mismatch) error {
	if len(mismatches) == 0 {
		return nil
	}
	errs := make([]error, 0, len(mismatches))
	for _, m := range mismatches {
		errs = append(errs, errors.New(m.String()))
	}
	return fmt.Errorf("%w: %d teams: %w", ErrMismatch, len(mismatches), errors.Join(errs...))
}
