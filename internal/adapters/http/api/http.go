// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/specialscout/internal/adapters/http/swagger"
	"github.com/okian/specialscout/pkg/logger"
)

const defaultMaxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SubmissionDependencies
	TeamDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	submissionHandler *SubmissionHandler
	teamHandler       *TeamHandler

	maxBodyBytes int64
	logger       logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithVersion sets the version reported by /heartbeat.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.healthHandler.version = version
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxBodyBytes:  defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("api")
	}
	s.submissionHandler = NewSubmissionHandler(deps, s.logger)
	s.teamHandler = NewTeamHandler(deps)
	return s
}

// Routes builds the router with every endpoint attached.
func (s *Server) Routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(
		RequestID,
		middleware.Recoverer,
		MaxBytes(s.maxBodyBytes),
	)

	r.Get("/heartbeat", MetricsMiddleware(s.healthHandler.HandleHeartbeat, "heartbeat"))
	r.Get("/metrics", s.healthHandler.HandleMetrics)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Post("/dump_resps/{submitterId}", MetricsMiddleware(s.submissionHandler.HandleSubmit, "dump_resps"))
	r.Post("/dump_resps_mass/{submitterId}", MetricsMiddleware(s.submissionHandler.HandleSubmitMass, "dump_resps_mass"))

	r.Get("/team_details", MetricsMiddleware(s.teamHandler.HandleList, "team_details"))
	r.Get("/team_details/{team}", MetricsMiddleware(s.teamHandler.HandleGet, "team_detail"))

	swagger.Register(ctx, r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: messageOf(err)})
}
