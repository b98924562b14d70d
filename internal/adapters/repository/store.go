// Package repository defines the aggregate sample store and its errors.
package repository

import (
	"context"

	"github.com/palate/palate/internal/domain/model"
)

// Filter narrows Query and Dashboard reads with optional equality
// conditions. Zero-value fields match everything.
type Filter struct {
	PickBatchID string
	Country     string
}

// matches reports whether a stored result satisfies the filter.
func (f Filter) matches(res model.SampleResult) bool {
	if f.PickBatchID != "" && res.PickBatchID != f.PickBatchID {
		return false
	}
	if f.Country != "" && res.Country != f.Country {
		return false
	}
	return true
}

// Store provides read/write access to processed sample results and the
// derived views rebuilt after every ingest batch.
type Store interface {
	// Upsert stores a result under its SampleID, replacing any existing
	// entry wholesale. Returns true when an entry was overwritten.
	Upsert(ctx context.Context, res model.SampleResult) bool

	// Get returns the stored result for a sample id.
	// Returns ErrNotFound for unknown ids.
	Get(ctx context.Context, sampleID string) (model.SampleResult, error)

	// Query returns all stored results matching the filter, ordered by
	// sample id for determinism.
	Query(ctx context.Context, f Filter) []model.SampleResult

	// Dashboard returns the cached dashboard projection, filtered.
	Dashboard(ctx context.Context, f Filter) []model.DashboardRow

	// Summary returns the cached global summary.
	Summary(ctx context.Context) model.GlobalSummary

	// RebuildDerived recomputes the dashboard projection and global
	// summary from the full store. Called once per ingest batch.
	RebuildDerived(ctx context.Context)

	// Count returns the number of stored samples.
	Count(ctx context.Context) int

	// Clear drops all state. Used for test isolation only.
	Clear(ctx context.Context)
}
