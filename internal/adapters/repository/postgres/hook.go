package postgres

import (
	"context"
	"time"

	"github.com/okian/specialscout/pkg/logger"
	"github.com/uptrace/bun"
)

// queryHook logs every statement at debug and failures at warn.
type queryHook struct {
	logger logger.Logger
}

var _ bun.QueryHook = (*queryHook)(nil)

func (h *queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *queryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	fields := []logger.Field{
		logger.String("op", event.Operation()),
		logger.Duration("elapsed", time.Since(event.StartTime)),
	}
	if event.Err != nil && !isNoRows(event.Err) {
		h.logger.Warn(ctx, "query failed", append(fields, logger.String("sql", event.Query), logger.Error(event.Err))...)
		return
	}
	h.logger.Debug(ctx, "query", fields...)
}
