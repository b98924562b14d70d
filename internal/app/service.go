// Package service provides the core business service that implements
// the dependencies required by the HTTP API: batch ingestion of score
// files and reads over the aggregate store.
package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/palate/palate/internal/adapters/ingest"
	repository "github.com/palate/palate/internal/adapters/repository"
	"github.com/palate/palate/internal/domain/composite"
	"github.com/palate/palate/internal/domain/model"
	"github.com/palate/palate/internal/domain/sample"
	"github.com/palate/palate/pkg/logger"
	"github.com/palate/palate/pkg/metrics"
)

// Service owns the aggregate store and runs the ingest pipeline.
type Service struct {
	mu sync.RWMutex

	// ingestMu serializes upsert+rebuild per batch so a derived-view
	// rebuild never observes a partially written concurrent batch.
	ingestMu sync.Mutex

	// Core components
	store     repository.Store
	processor *sample.Processor

	// Configuration
	weights  composite.Weights
	groupCap int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWeights overrides the composite score weights.
func WithWeights(w composite.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithGroupCap overrides the per-sample record cap.
func WithGroupCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.groupCap = n
		}
	}
}

// WithStore injects a store implementation. Used by tests; Start
// creates an in-memory store when none is provided.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weights:  composite.DefaultWeights(),
		groupCap: sample.DefaultGroupCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates configuration and initializes the service components.
// Invalid composite weights are fatal here; the weights are static and
// can never become valid at runtime.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	calc, err := composite.New(s.weights)
	if err != nil {
		return fmt.Errorf("start sensory service: %w", err)
	}
	s.processor = sample.NewProcessor(calc, sample.WithGroupCap(s.groupCap))

	if s.store == nil {
		s.store = repository.NewMemStore(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "sensory service started",
		logger.Int("groupCap", s.groupCap),
	)
	return nil
}

// Stop shuts the service down. The store is volatile; nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "sensory service stopped")
}

// BatchInput describes one uploaded score file.
type BatchInput struct {
	PickBatchID string
	Country     string
	Filename    string
	Data        io.Reader
}

// BatchReport summarizes one ingest batch.
type BatchReport struct {
	BatchID   string
	Processed int
	Skipped   int
	Samples   []model.SampleResult
	Summary   model.GlobalSummary
}

// IngestBatch parses one uploaded file, processes every sample group,
// stores the results and rebuilds the derived views exactly once.
//
// Failures are isolated per sample: a group that cannot be processed is
// skipped, logged and counted without aborting its siblings. Only a
// structurally empty input (zero groups) fails the whole batch with
// sample.ErrEmptyBatch.
func (s *Service) IngestBatch(ctx context.Context, in BatchInput) (BatchReport, error) {
	start := time.Now()
	batchID := uuid.NewString()

	groups, err := ingest.Parse(in.Data, in.Filename)
	if err != nil {
		metrics.RecordParseError()
		metrics.RecordErrorByComponent("ingest", "parse_error")
		return BatchReport{}, fmt.Errorf("parse %q: %w", in.Filename, err)
	}
	if len(groups) == 0 {
		return BatchReport{}, sample.ErrEmptyBatch
	}

	refs := make([]string, 0, len(groups))
	for ref := range groups {
		refs = append(refs, ref)
	}
	sort.Strings(refs)

	report := BatchReport{BatchID: batchID}
	results := make([]model.SampleResult, 0, len(refs))
	for _, ref := range refs {
		recs := groups[ref]
		res, err := s.processor.Process(recs)
		if err != nil {
			report.Skipped++
			metrics.RecordSampleSkipped()
			s.logger.Warn(ctx, "skipping sample group",
				logger.String("batchID", batchID),
				logger.String("sampleRef", ref),
				logger.Error(err),
			)
			continue
		}
		// Upload-level metadata wins; fall back to what the file carries.
		pick, country := in.PickBatchID, in.Country
		if pick == "" {
			pick = recs[0].PickBatchID
		}
		if country == "" {
			country = recs[0].Country
		}
		res.SampleID = model.SampleID(pick, ref)
		res.PickBatchID = pick
		res.Country = country
		results = append(results, res)
	}

	s.ingestMu.Lock()
	for _, res := range results {
		if replaced := s.store.Upsert(ctx, res); replaced {
			s.logger.Info(ctx, "replacing stored sample",
				logger.String("batchID", batchID),
				logger.String("sampleID", res.SampleID),
			)
		}
		metrics.RecordSampleProcessed()
	}
	s.store.RebuildDerived(ctx)
	s.ingestMu.Unlock()

	report.Processed = len(results)
	report.Samples = results
	report.Summary = s.store.Summary(ctx)

	metrics.RecordBatchIngested()
	metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))
	s.logger.Info(ctx, "batch ingested",
		logger.String("batchID", batchID),
		logger.String("pickBatchID", in.PickBatchID),
		logger.Int("processed", report.Processed),
		logger.Int("skipped", report.Skipped),
	)
	return report, nil
}

// Sample returns one stored result by sample id.
func (s *Service) Sample(ctx context.Context, sampleID string) (model.SampleResult, error) {
	return s.store.Get(ctx, sampleID)
}

// Results returns all stored results matching the filter.
func (s *Service) Results(ctx context.Context, f repository.Filter) []model.SampleResult {
	return s.store.Query(ctx, f)
}

// Dashboard returns the cached dashboard rows matching the filter.
func (s *Service) Dashboard(ctx context.Context, f repository.Filter) []model.DashboardRow {
	return s.store.Dashboard(ctx, f)
}

// Summary returns the cached global summary.
func (s *Service) Summary(ctx context.Context) model.GlobalSummary {
	return s.store.Summary(ctx)
}

// Clear wipes the store and derived views. Test-teardown lifecycle only.
func (s *Service) Clear(ctx context.Context) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()
	s.store.Clear(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":  s.started,
		"groupCap": s.groupCap,
	}
	if s.started {
		summary := s.store.Summary(ctx)
		stats["storedSamples"] = s.store.Count(ctx)
		stats["uniqueConsumers"] = summary.TotalUniqueConsumers

		metrics.UpdateStoreSamples(s.store.Count(ctx))
		metrics.UpdateUniqueConsumers(summary.TotalUniqueConsumers)
	}
	return stats
}
