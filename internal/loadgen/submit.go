package loadgen

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// progressEvery controls how often submission progress is logged.
const progressEvery = 500

// job is one HTTP request: a single record, or a chunk for the mass endpoint.
type job struct {
	submitter model.SubmitterID
	records   []model.Record
	single    bool
}

func plan(subs []Submission, mass int) []job {
	if mass <= 0 {
		jobs := make([]job, len(subs))
		for i, s := range subs {
			jobs[i] = job{submitter: s.Submitter, records: []model.Record{s.Record}, single: true}
		}
		return jobs
	}
	jobs := make([]job, 0, (len(subs)+mass-1)/mass)
	for start := 0; start < len(subs); start += mass {
		end := min(start+mass, len(subs))
		recs := make([]model.Record, 0, end-start)
		for _, s := range subs[start:end] {
			recs = append(recs, s.Record)
		}
		jobs = append(jobs, job{submitter: subs[start].Submitter, records: recs})
	}
	return jobs
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// submit posts every submission with at most config.Workers requests in
// flight. Request failures are counted, not fatal; only cancellation aborts.
func submit(ctx context.Context, config *Config, client *HTTPClient, subs []Submission, stats *Stats) error {
	jobs := plan(subs, config.Mass)
	limiter := newLimiter(config.Rate)

	logger.Get().Info(ctx, "submitting records",
		logger.Int("records", len(subs)),
		logger.Int("requests", len(jobs)),
		logger.Int("workers", config.Workers),
		logger.Float64("rate", config.Rate))

	var sent, accepted, failed atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
			requestID := fmt.Sprintf("%s-%d", stats.RunID, i)

			var err error
			if j.single {
				err = client.Submit(gctx, requestID, Submission{Submitter: j.submitter, Record: j.records[0]})
			} else {
				err = client.SubmitMass(gctx, requestID, j.submitter, j.records)
			}

			n := sent.Add(1)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				if config.Verbose {
					logger.Get().Warn(gctx, "request failed",
						logger.String("requestId", requestID),
						logger.Int("records", len(j.records)),
						logger.Error(err))
				}
			} else {
				accepted.Add(int64(len(j.records)))
			}
			if n%progressEvery == 0 {
				logger.Get().Info(gctx, "submission progress",
					logger.Int64("requests", n),
					logger.Int("total", len(jobs)),
					logger.Int64("failed", failed.Load()))
			}
			return nil
		})
	}
	err := g.Wait()

	stats.Requests = sent.Load()
	stats.RecordsAccepted = accepted.Load()
	stats.RequestsFailed = failed.Load()

	if err != nil {
		return fmt.Errorf("submission aborted: %w", err)
	}
	logger.Get().Info(ctx, "submission completed",
		logger.Int64("requests", stats.Requests),
		logger.Int64("accepted", stats.RecordsAccepted),
		logger.Int64("failed", stats.RequestsFailed),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}
