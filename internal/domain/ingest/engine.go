// Package ingest applies scouting submissions to per-team aggregates.
//
// Each submission is one unit of work: the team lock is taken, a store unit
// is begun, the raw record is inserted, the aggregate is seeded or merged and
// written back in full, a pit picture replaces the stored image, and the unit
// commits. Any failure before commit rolls the unit back.
package ingest

import (
	"context"
	"errors"
	"time"

	repository "github.com/okian/specialscout/internal/adapters/repository"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
	"github.com/okian/specialscout/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultAcquireTimeout = 5 * time.Second
	tracerName            = "github.com/okian/specialscout/internal/domain/ingest"
	opApply               = "ingest.apply"
)

// Engine is safe for concurrent use.
type Engine struct {
	store          repository.Store
	locks          *TeamLocks
	acquireTimeout time.Duration
	logger         logger.Logger
	tracer         trace.Tracer
}

// NewEngine builds an engine over store.
func NewEngine(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:          store,
		locks:          NewTeamLocks(),
		acquireTimeout: defaultAcquireTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("ingest")
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(tracerName)
	}
	return e
}

// Apply commits rec and returns the team's aggregate as written.
// Submissions for the same team are applied one at a time. Waiting for the
// team lock and for a store connection share one acquire deadline; once the
// unit has begun it runs to completion even if ctx is cancelled.
func (e *Engine) Apply(ctx context.Context, submitter model.SubmitterID, rec model.Record) (model.TeamAggregate, error) {
	if rec == nil {
		metrics.RecordSubmissionFailed(KindMalformedPayload.String())
		return model.TeamAggregate{}, &Error{Op: opApply, Kind: KindMalformedPayload, Err: model.ErrMalformedPayload}
	}
	team := rec.TeamNumber()
	kind := string(rec.Kind())

	ctx, span := e.tracer.Start(ctx, "ingest.Apply", trace.WithAttributes(
		attribute.Int64("scout.team", int64(team)),
		attribute.String("scout.kind", kind),
		attribute.Int64("scout.submitter", int64(submitter)),
	))
	defer span.End()

	start := time.Now()
	agg, created, err := e.apply(ctx, submitter, rec)
	if err != nil {
		var ierr *Error
		errors.As(err, &ierr)
		metrics.RecordSubmissionFailed(ierr.Kind.String())
		if ierr.Kind == KindConnectionTimeout {
			metrics.RecordAcquireTimeout()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, ierr.Kind.String())
		return model.TeamAggregate{}, err
	}

	metrics.RecordSubmissionApplied(kind)
	metrics.RecordUnitLatency(kind, float64(time.Since(start).Microseconds())/1000)
	if created {
		metrics.RecordAggregateCreated(kind)
	}
	span.SetAttributes(attribute.Bool("scout.created", created))
	e.logger.Debug(ctx, "submission applied",
		logger.Int64("team", int64(team)),
		logger.String("kind", kind),
		logger.Bool("created", created),
		logger.Int64("matches", agg.Matches),
		logger.Int64("scoreAccum", agg.ScoreAccum),
	)
	return agg, nil
}

func (e *Engine) apply(ctx context.Context, submitter model.SubmitterID, rec model.Record) (model.TeamAggregate, bool, error) {
	team := rec.TeamNumber()
	fail := func(kind Kind, err error) (model.TeamAggregate, bool, error) {
		return model.TeamAggregate{}, false, &Error{Op: opApply, Kind: kind, Team: team, Err: err}
	}

	acqCtx, cancel := context.WithTimeout(ctx, e.acquireTimeout)
	defer cancel()

	lockStart := time.Now()
	release, err := e.locks.Lock(acqCtx, team)
	if err != nil {
		return fail(KindConnectionTimeout, err)
	}
	defer release()
	metrics.RecordLockWait(float64(time.Since(lockStart).Microseconds()) / 1000)

	unit, err := e.store.Begin(acqCtx)
	if err != nil {
		return fail(KindConnectionTimeout, err)
	}

	work := context.WithoutCancel(ctx)
	agg, created, err := e.write(work, unit, submitter, rec)
	if err == nil {
		err = unit.Commit(work)
	}
	if err != nil {
		if rbErr := unit.Rollback(work); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
		return fail(KindPersistence, err)
	}
	return agg, created, nil
}

func (e *Engine) write(ctx context.Context, unit repository.Unit, submitter model.SubmitterID, rec model.Record) (model.TeamAggregate, bool, error) {
	if err := unit.InsertRaw(ctx, submitter, rec); err != nil {
		return model.TeamAggregate{}, false, err
	}

	existing, found, err := unit.FetchAggregate(ctx, rec.TeamNumber())
	if err != nil {
		return model.TeamAggregate{}, false, err
	}

	var agg model.TeamAggregate
	if found {
		agg = existing.Merge(rec)
	} else {
		agg = model.Seed(rec)
	}

	if err := unit.UpsertAggregate(ctx, agg); err != nil {
		return model.TeamAggregate{}, false, err
	}

	if img, ok := model.Picture(rec); ok {
		if err := unit.UpsertImage(ctx, agg.Team, img); err != nil {
			return model.TeamAggregate{}, false, err
		}
		metrics.RecordImageUpsert()
	}
	return agg, !found, nil
}

// ApplyAll applies recs in order, each as its own unit. It stops at the
// first failure and returns a *BatchError naming that record; earlier
// records stay committed.
func (e *Engine) ApplyAll(ctx context.Context, submitter model.SubmitterID, recs []model.Record) (int, error) {
	metrics.RecordMassBatchSize(len(recs))
	for i, rec := range recs {
		if _, err := e.Apply(ctx, submitter, rec); err != nil {
			return i, &BatchError{Index: i, Err: err}
		}
	}
	return len(recs), nil
}

// Locks exposes the engine's lock table.
func (e *Engine) Locks() *TeamLocks { return e.locks }
