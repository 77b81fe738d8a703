package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/okian/specialscout/internal/domain/ingest"
	"github.com/okian/specialscout/internal/domain/model"
	"github.com/okian/specialscout/pkg/logger"
)

// SubmissionDependencies applies decoded submissions.
type SubmissionDependencies interface {
	Ingest(ctx context.Context, submitter model.SubmitterID, rec model.Record) (model.TeamAggregate, error)
	IngestBatch(ctx context.Context, submitter model.SubmitterID, recs []model.Record) (int, error)
}

// SubmissionHandler handles the scouting upload endpoints.
type SubmissionHandler struct {
	deps   SubmissionDependencies
	logger logger.Logger
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(deps SubmissionDependencies, l logger.Logger) *SubmissionHandler {
	return &SubmissionHandler{deps: deps, logger: l}
}

// massRequest is the body of POST /dump_resps_mass.
type massRequest struct {
	Responses *[]model.Envelope `json:"responses"`
}

// HandleSubmit handles POST /dump_resps/{submitterId}.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.dump_resps"
	submitter, err := submitterID(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	var env model.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	if _, err := h.deps.Ingest(r.Context(), submitter, env.Record); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmitMass handles POST /dump_resps_mass/{submitterId}. The body is
// decoded in full before anything is applied.
func (h *SubmissionHandler) HandleSubmitMass(w http.ResponseWriter, r *http.Request) {
	const op = "api.dump_resps_mass"
	submitter, err := submitterID(r)
	if err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	var req massRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Responses == nil {
		h.fail(w, r, WrapKind(op, ErrBadRequest, errors.New("missing field responses")))
		return
	}

	recs := make([]model.Record, len(*req.Responses))
	for i, env := range *req.Responses {
		recs[i] = env.Record
	}
	if _, err := h.deps.IngestBatch(r.Context(), submitter, recs); err != nil {
		// A failed record is reported as a server error whatever its kind.
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SubmissionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if isBatchError(err) {
		status, code = http.StatusInternalServerError, "batch_failed"
	}
	h.logger.Warn(r.Context(), "submission rejected",
		logger.String("requestId", RequestIDFrom(r.Context())),
		logger.Int("status", status),
		logger.Error(err),
	)
	writeJSON(w, status, errorResponse{Code: code, Message: messageOf(err)})
}

func submitterID(r *http.Request) (model.SubmitterID, error) {
	raw := chi.URLParam(r, "submitterId")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("submitter id must be an unsigned 32-bit integer")
	}
	return model.SubmitterID(id), nil
}

func isBatchError(err error) bool {
	var batchErr *ingest.BatchError
	return errors.As(err, &batchErr)
}
