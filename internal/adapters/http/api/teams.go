package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/specialscout/internal/domain/model"
)

// TeamDependencies reads aggregates.
type TeamDependencies interface {
	TeamAggregate(ctx context.Context, team model.Team) (model.TeamAggregate, error)
	TeamAggregates(ctx context.Context) ([]model.TeamAggregate, error)
}

// TeamHandler serves the team_details read side.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleList handles GET /team_details.
func (h *TeamHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.TeamAggregates(r.Context())
	if err != nil {
		writeError(w, WrapKind("api.team_details", nil, err))
		return
	}
	if all == nil {
		all = []model.TeamAggregate{}
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleGet handles GET /team_details/{team}.
func (h *TeamHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.team_detail"
	team, err := strconv.ParseInt(chi.URLParam(r, "team"), 10, 64)
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("team must be an integer")))
		return
	}
	agg, err := h.deps.TeamAggregate(r.Context(), model.Team(team))
	if err != nil {
		writeError(w, WrapKind(op, nil, err))
		return
	}
	writeJSON(w, http.StatusOK, agg)
}
