// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	repository "github.com/palate/palate/internal/adapters/repository"
	service "github.com/palate/palate/internal/app"
	"github.com/palate/palate/internal/domain/model"
)

// BatchInput and BatchReport mirror the ingest shapes used by the
// service layer.
type (
	BatchInput  = service.BatchInput
	BatchReport = service.BatchReport
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// IngestBatch parses and processes one uploaded score file.
	IngestBatch(ctx context.Context, in BatchInput) (BatchReport, error)

	// Read operations expose processed sample data.
	Sample(ctx context.Context, sampleID string) (model.SampleResult, error)
	Results(ctx context.Context, f repository.Filter) []model.SampleResult
	Dashboard(ctx context.Context, f repository.Filter) []model.DashboardRow
	Summary(ctx context.Context) model.GlobalSummary
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	uploadHandler    *UploadHandler
	samplesHandler   *SamplesHandler
	dashboardHandler *DashboardHandler
	summaryHandler   *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		uploadHandler:    NewUploadHandler(deps, maxUploadBytes),
		samplesHandler:   NewSamplesHandler(deps),
		dashboardHandler: NewDashboardHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/upload", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandleListSamples, "samples"))
	mux.HandleFunc("/samples/", MetricsMiddleware(s.samplesHandler.HandleGetSample, "sample"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary"))
}

// filterFromQuery builds a store filter from the shared query params.
func filterFromQuery(r *http.Request) repository.Filter {
	q := r.URL.Query()
	return repository.Filter{
		PickBatchID: q.Get("pickBatchId"),
		Country:     q.Get("country"),
	}
}

// sampleResponse is the wire shape of one processed sample. Trait means
// are flattened into {trait}Unclipped/{trait}Clipped pairs so dashboard
// clients can bind columns without nested lookups.
type sampleResponse struct {
	SampleID      string `json:"sampleId"`
	SampleRef     string `json:"sampleRef"`
	PickBatchID   string `json:"pickBatchId"`
	Country       string `json:"country"`
	ConsumerCount int    `json:"consumerCount"`

	TendernessUnclipped float64 `json:"tendernessUnclipped"`
	TendernessClipped   float64 `json:"tendernessClipped"`
	JuicinessUnclipped  float64 `json:"juicinessUnclipped"`
	JuicinessClipped    float64 `json:"juicinessClipped"`
	FlavorUnclipped     float64 `json:"flavorUnclipped"`
	FlavorClipped       float64 `json:"flavorClipped"`
	OverallUnclipped    float64 `json:"overallUnclipped"`
	OverallClipped      float64 `json:"overallClipped"`
	CompositeUnclipped  float64 `json:"compositeUnclipped"`
	CompositeClipped    float64 `json:"compositeClipped"`

	Quality     model.QualityMetrics `json:"quality"`
	ProcessedAt time.Time            `json:"processedAt"`
}

func newSampleResponse(res model.SampleResult) sampleResponse {
	return sampleResponse{
		SampleID:      res.SampleID,
		SampleRef:     res.SampleRef,
		PickBatchID:   res.PickBatchID,
		Country:       res.Country,
		ConsumerCount: res.ConsumerCount,

		TendernessUnclipped: res.Tenderness.Unclipped,
		TendernessClipped:   res.Tenderness.Clipped,
		JuicinessUnclipped:  res.Juiciness.Unclipped,
		JuicinessClipped:    res.Juiciness.Clipped,
		FlavorUnclipped:     res.Flavor.Unclipped,
		FlavorClipped:       res.Flavor.Clipped,
		OverallUnclipped:    res.Overall.Unclipped,
		OverallClipped:      res.Overall.Clipped,
		CompositeUnclipped:  res.Composite.Unclipped,
		CompositeClipped:    res.Composite.Clipped,

		Quality:     res.Quality,
		ProcessedAt: res.ProcessedAt,
	}
}

func newSampleResponses(results []model.SampleResult) []sampleResponse {
	out := make([]sampleResponse, len(results))
	for i, res := range results {
		out[i] = newSampleResponse(res)
	}
	return out
}

// uploadResponse mirrors the schema for POST /upload.
type uploadResponse struct {
	BatchID   string              `json:"batchId"`
	Processed int                 `json:"processed"`
	Skipped   int                 `json:"skipped"`
	Samples   []sampleResponse    `json:"samples"`
	Summary   model.GlobalSummary `json:"summary"`
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
