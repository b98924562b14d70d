// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	repository "github.com/palate/palate/internal/adapters/repository"
	"github.com/palate/palate/internal/domain/model"
)

// SampleDependencies defines the interface for sample read operations.
type SampleDependencies interface {
	Sample(ctx context.Context, sampleID string) (model.SampleResult, error)
	Results(ctx context.Context, f repository.Filter) []model.SampleResult
}

// SamplesHandler handles sample read requests.
type SamplesHandler struct {
	deps SampleDependencies
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps SampleDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// HandleListSamples handles GET /samples requests, optionally filtered
// by pickBatchId and country query parameters.
func (h *SamplesHandler) HandleListSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	results := h.deps.Results(r.Context(), filterFromQuery(r))
	writeJSON(w, http.StatusOK, newSampleResponses(results))
}

// HandleGetSample handles GET /samples/{sample_id} requests.
func (h *SamplesHandler) HandleGetSample(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sample"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /samples/
	sampleID := strings.TrimPrefix(r.URL.Path, "/samples/")
	if sampleID == "" || strings.Contains(sampleID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	res, err := h.deps.Sample(r.Context(), sampleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newSampleResponse(res))
}
