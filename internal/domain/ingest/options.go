package ingest

import (
	"time"

	"github.com/okian/specialscout/pkg/logger"
	"go.opentelemetry.io/otel/trace"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAcquireTimeout bounds the wait for the team lock plus a connection.
func WithAcquireTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.acquireTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer sets the tracer used for unit-of-work spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}
