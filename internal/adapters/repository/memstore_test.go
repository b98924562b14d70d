package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/palate/palate/internal/domain/model"
)

func makeResult(pickBatchID, sampleRef, country string, clipped float64, completeness float64, consumerIDs ...int) model.SampleResult {
	records := make([]model.ScoredRecord, 0, len(consumerIDs))
	for _, id := range consumerIDs {
		records = append(records, model.ScoredRecord{
			ScoreRecord: model.ScoreRecord{SampleRef: sampleRef, ConsumerID: id},
			Composite:   clipped,
		})
	}
	return model.SampleResult{
		SampleID:      model.SampleID(pickBatchID, sampleRef),
		SampleRef:     sampleRef,
		PickBatchID:   pickBatchID,
		Country:       country,
		ConsumerCount: len(records),
		Composite:     model.TraitMeans{Unclipped: clipped, Clipped: clipped},
		Quality:       model.QualityMetrics{Completeness: completeness, Grade: model.GradeGood},
		RawRecords:    records,
		ProcessedAt:   time.Now().UTC(),
	}
}

func TestMemStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	res := makeResult("PB1", "EQS-1", "AUS", 7.1, 100, 1, 2)
	if replaced := store.Upsert(ctx, res); replaced {
		t.Error("first upsert must not report a replacement")
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	got, err := store.Get(ctx, "PB1_EQS-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SampleRef != "EQS-1" || got.ConsumerCount != 2 {
		t.Errorf("unexpected result: %+v", got)
	}

	if _, err := store.Get(ctx, "PB1_MISSING"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_UpsertReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	store.Upsert(ctx, makeResult("PB1", "EQS-1", "AUS", 6.0, 90, 1, 2, 3))
	replaced := store.Upsert(ctx, makeResult("PB1", "EQS-1", "AUS", 7.5, 100, 4))
	if !replaced {
		t.Error("re-ingest of the same sample id must replace")
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("store size must be unchanged after replacement, got %d", count)
	}

	got, err := store.Get(ctx, "PB1_EQS-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Composite.Clipped != 7.5 || got.ConsumerCount != 1 {
		t.Errorf("replacement must not merge with the prior entry: %+v", got)
	}
}

func TestMemStore_QueryFilters(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	store.Upsert(ctx, makeResult("PB1", "EQS-1", "AUS", 7.0, 100, 1))
	store.Upsert(ctx, makeResult("PB1", "EQS-2", "NZL", 6.0, 100, 2))
	store.Upsert(ctx, makeResult("PB2", "EQS-1", "AUS", 5.0, 100, 3))

	if got := store.Query(ctx, Filter{}); len(got) != 3 {
		t.Errorf("expected all 3 entries, got %d", len(got))
	}
	if got := store.Query(ctx, Filter{PickBatchID: "PB1"}); len(got) != 2 {
		t.Errorf("expected 2 PB1 entries, got %d", len(got))
	}
	if got := store.Query(ctx, Filter{Country: "AUS"}); len(got) != 2 {
		t.Errorf("expected 2 AUS entries, got %d", len(got))
	}
	got := store.Query(ctx, Filter{PickBatchID: "PB1", Country: "NZL"})
	if len(got) != 1 || got[0].SampleRef != "EQS-2" {
		t.Errorf("combined filter mismatch: %+v", got)
	}

	// Deterministic ordering by sample id.
	all := store.Query(ctx, Filter{})
	for i := 1; i < len(all); i++ {
		if all[i-1].SampleID > all[i].SampleID {
			t.Errorf("results out of order: %s > %s", all[i-1].SampleID, all[i].SampleID)
		}
	}
}

func TestMemStore_DerivedViews(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx)

	// Derived views start empty.
	if sum := store.Summary(ctx); sum.TotalSamples != 0 {
		t.Errorf("expected empty summary, got %+v", sum)
	}

	// Consumer 2 rates samples in two unrelated pick batches; the store
	// conflates them into one unique consumer.
	store.Upsert(ctx, makeResult("PB1", "EQS-1", "AUS", 7.0, 100, 1, 2))
	store.Upsert(ctx, makeResult("PB2", "EQS-9", "NZL", 6.0, 90, 2, 3))
	store.RebuildDerived(ctx)

	sum := store.Summary(ctx)
	if sum.TotalSamples != 2 {
		t.Errorf("expected 2 samples, got %d", sum.TotalSamples)
	}
	if sum.TotalUniqueConsumers != 3 {
		t.Errorf("expected 3 unique consumers, got %d", sum.TotalUniqueConsumers)
	}
	if sum.AverageComposite != 6.5 {
		t.Errorf("expected average composite 6.5, got %f", sum.AverageComposite)
	}
	if sum.AverageQuality != 95.0 {
		t.Errorf("expected average quality 95.0, got %f", sum.AverageQuality)
	}

	rows := store.Dashboard(ctx, Filter{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 dashboard rows, got %d", len(rows))
	}
	if rows[0].PickBatchID != "PB1" || rows[1].PickBatchID != "PB2" {
		t.Errorf("rows must be ordered by pick batch then sample ref: %+v", rows)
	}
	if rows[0].AverageComposite != 7.0 || rows[0].UnclippedComposite != 7.0 {
		t.Errorf("row projection mismatch: %+v", rows[0])
	}

	filtered := store.Dashboard(ctx, Filter{Country: "NZL"})
	if len(filtered) != 1 || filtered[0].SampleRef != "EQS-9" {
		t.Errorf("dashboard filter mismatch: %+v", filtered)
	}

	// The snapshot is only refreshed by an explicit rebuild.
	store.Upsert(ctx, makeResult("PB3", "EQS-5", "AUS", 5.0, 80, 9))
	if sum := store.Summary(ctx); sum.TotalSamples != 2 {
		t.Errorf("summary must be stale until rebuild, got %d samples", sum.TotalSamples)
	}
	store.RebuildDerived(ctx)
	if sum := store.Summary(ctx); sum.TotalSamples != 3 {
		t.Errorf("expected 3 samples after rebuild, got %d", sum.TotalSamples)
	}
}

func TestMemStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore(ctx, WithInitialCapacity(16))

	store.Upsert(ctx, makeResult("PB1", "EQS-1", "AUS", 7.0, 100, 1))
	store.RebuildDerived(ctx)
	store.Clear(ctx)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected empty store, got %d", count)
	}
	if sum := store.Summary(ctx); sum.TotalSamples != 0 {
		t.Errorf("expected empty summary after clear, got %+v", sum)
	}
	if rows := store.Dashboard(ctx, Filter{}); len(rows) != 0 {
		t.Errorf("expected no dashboard rows after clear, got %d", len(rows))
	}
}
