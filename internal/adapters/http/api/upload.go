// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/palate/palate/internal/adapters/ingest"
	"github.com/palate/palate/internal/domain/sample"
)

// UploadDependencies defines the interface for batch ingestion.
type UploadDependencies interface {
	IngestBatch(ctx context.Context, in BatchInput) (BatchReport, error)
}

// UploadHandler handles score file uploads.
type UploadHandler struct {
	deps           UploadDependencies
	maxUploadBytes int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(deps UploadDependencies, maxUploadBytes int64) *UploadHandler {
	return &UploadHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandleUpload handles POST /upload requests.
//
// The preferred form is multipart/form-data with the score file under
// the "file" field and optional pickBatchId/country fields. A raw body
// is also accepted, with the filename and metadata passed as query
// parameters.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	in, err := h.batchInput(r)
	if err != nil {
		status, code := http.StatusBadRequest, "bad_request"
		if errors.Is(err, ErrPayloadTooLarge) {
			status, code = http.StatusRequestEntityTooLarge, "payload_too_large"
		}
		writeError(w, status, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	report, err := h.deps.IngestBatch(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnsupportedFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", err)
		case errors.Is(err, sample.ErrEmptyBatch):
			writeError(w, http.StatusUnprocessableEntity, "empty_batch", err)
		case isPayloadTooLarge(err):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
		default:
			writeError(w, http.StatusBadRequest, "bad_request", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		BatchID:   report.BatchID,
		Processed: report.Processed,
		Skipped:   report.Skipped,
		Samples:   newSampleResponses(report.Samples),
		Summary:   report.Summary,
	})
}

// batchInput extracts the score file and batch metadata from the request.
func (h *UploadHandler) batchInput(r *http.Request) (BatchInput, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			if isPayloadTooLarge(err) {
				return BatchInput{}, ErrPayloadTooLarge
			}
			return BatchInput{}, err
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return BatchInput{}, errors.New("missing file field")
		}
		return BatchInput{
			PickBatchID: r.FormValue("pickBatchId"),
			Country:     r.FormValue("country"),
			Filename:    header.Filename,
			Data:        file,
		}, nil
	}

	q := r.URL.Query()
	filename := q.Get("filename")
	if filename == "" {
		return BatchInput{}, errors.New("missing filename parameter for raw upload")
	}
	return BatchInput{
		PickBatchID: q.Get("pickBatchId"),
		Country:     q.Get("country"),
		Filename:    filename,
		Data:        r.Body,
	}, nil
}

// isPayloadTooLarge detects the MaxBytesReader limit error surfaced
// anywhere in a read path.
func isPayloadTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
