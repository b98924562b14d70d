package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/palate/palate/internal/domain/model"
	"github.com/palate/palate/pkg/metrics"
)

// Map-backed, in-memory Store implementation.
//
// Writes mutate the sample map under a mutex. The derived views are kept
// in an immutable snapshot swapped atomically on RebuildDerived, so
// readers always observe a consistent dashboard and summary even while a
// batch is being written. Derived state is never patched incrementally:
// every rebuild iterates the full store, trading O(N) recompute cost for
// correctness simplicity.

// snapshot is one immutable generation of the derived views.
type snapshot struct {
	rows    []model.DashboardRow
	summary model.GlobalSummary
}

// MemStore holds all processed samples keyed by sample id. The zero
// value is not usable; construct with NewMemStore.
type MemStore struct {
	mu      sync.RWMutex
	samples map[string]model.SampleResult
	derived atomic.Pointer[snapshot]
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithInitialCapacity pre-sizes the sample map.
func WithInitialCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.samples = make(map[string]model.SampleResult, n)
		}
	}
}

// NewMemStore creates an empty store with empty derived views.
func NewMemStore(_ context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		samples: make(map[string]model.SampleResult),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.derived.Store(&snapshot{})
	return s
}

var _ Store = (*MemStore)(nil)

// Upsert stores res under its SampleID, replacing wholesale.
func (s *MemStore) Upsert(_ context.Context, res model.SampleResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced := s.samples[res.SampleID]
	s.samples[res.SampleID] = res
	return replaced
}

// Get returns the stored result for sampleID or ErrNotFound.
func (s *MemStore) Get(_ context.Context, sampleID string) (model.SampleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.samples[sampleID]
	if !ok {
		return model.SampleResult{}, ErrNotFound
	}
	return res, nil
}

// Query returns all stored results matching f, ordered by sample id.
func (s *MemStore) Query(_ context.Context, f Filter) []model.SampleResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SampleResult, 0, len(s.samples))
	for _, res := range s.samples {
		if f.matches(res) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SampleID < out[j].SampleID })
	return out
}

// Dashboard returns the cached projection rows matching f.
func (s *MemStore) Dashboard(_ context.Context, f Filter) []model.DashboardRow {
	snap := s.derived.Load()
	out := make([]model.DashboardRow, 0, len(snap.rows))
	for _, row := range snap.rows {
		if f.PickBatchID != "" && row.PickBatchID != f.PickBatchID {
			continue
		}
		if f.Country != "" && row.Country != f.Country {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Summary returns the cached global summary.
func (s *MemStore) Summary(_ context.Context) model.GlobalSummary {
	return s.derived.Load().summary
}

// RebuildDerived recomputes the dashboard rows and global summary from
// every stored sample and publishes them as a new snapshot.
func (s *MemStore) RebuildDerived(_ context.Context) {
	start := time.Now()

	s.mu.RLock()
	results := make([]model.SampleResult, 0, len(s.samples))
	for _, res := range s.samples {
		results = append(results, res)
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].PickBatchID != results[j].PickBatchID {
			return results[i].PickBatchID < results[j].PickBatchID
		}
		return results[i].SampleRef < results[j].SampleRef
	})

	snap := &snapshot{
		rows:    make([]model.DashboardRow, 0, len(results)),
		summary: summarize(results),
	}
	for _, res := range results {
		snap.rows = append(snap.rows, model.DashboardRow{
			Country:            res.Country,
			PickBatchID:        res.PickBatchID,
			SampleRef:          res.SampleRef,
			AverageComposite:   res.Composite.Clipped,
			UnclippedComposite: res.Composite.Unclipped,
			ConsumerCount:      res.ConsumerCount,
			ProcessedAt:        res.ProcessedAt,
		})
	}
	s.derived.Store(snap)

	metrics.RecordDerivedRebuild(float64(time.Since(start).Milliseconds()))
	metrics.UpdateStoreSamples(len(results))
	metrics.UpdateUniqueConsumers(snap.summary.TotalUniqueConsumers)
}

// summarize aggregates all stored samples into the global summary.
// Unique consumers are counted over the raw ConsumerID set across every
// stored sample; ids recurring in unrelated pick batches are conflated.
// Samples are weighted equally regardless of panel size.
func summarize(results []model.SampleResult) model.GlobalSummary {
	if len(results) == 0 {
		return model.GlobalSummary{}
	}

	consumers := make(map[int]struct{})
	var compositeSum, qualitySum float64
	for _, res := range results {
		for _, rec := range res.RawRecords {
			if rec.ConsumerID != 0 {
				consumers[rec.ConsumerID] = struct{}{}
			}
		}
		compositeSum += res.Composite.Clipped
		qualitySum += res.Quality.Completeness
	}

	return model.GlobalSummary{
		TotalSamples:         len(results),
		TotalUniqueConsumers: len(consumers),
		AverageComposite:     round3(compositeSum / float64(len(results))),
		AverageQuality:       round1(qualitySum / float64(len(results))),
	}
}

// Count returns the number of stored samples.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.samples)
}

// Clear drops all samples and derived state.
func (s *MemStore) Clear(_ context.Context) {
	s.mu.Lock()
	s.samples = make(map[string]model.SampleResult)
	s.mu.Unlock()
	s.derived.Store(&snapshot{})
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
