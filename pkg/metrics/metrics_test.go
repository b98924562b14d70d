package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManager_CustomRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewManager(
		WithPrometheusRegistry(registry),
		WithNamespace("test"),
		WithSubsystem("sensory"),
	)
	if m == nil {
		t.Fatal("expected manager")
	}

	// All metrics must be registered on the custom registry.
	m.batchesIngested.Inc()
	m.samplesProcessed.Inc()
	m.batchLatency.Observe(12.5)

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected registered metric families")
	}
	for _, f := range families {
		if got := f.GetName(); len(got) < len("test_sensory_") || got[:len("test_sensory_")] != "test_sensory_" {
			t.Errorf("metric %q missing namespace/subsystem prefix", got)
		}
	}
}

func TestPackageHelpers(t *testing.T) {
	// Helpers run against the global manager; they must not panic and the
	// registry must expose the recorded series.
	RecordBatchIngested()
	RecordSampleProcessed()
	RecordSampleSkipped()
	RecordParseError()
	RecordBatchLatency(3.2)
	UpdateStoreSamples(7)
	UpdateUniqueConsumers(42)
	RecordDerivedRebuild(1.1)
	RecordHTTPRequest("upload", "POST", "200")
	RecordHTTPRequestDuration("upload", "POST", "200", 8.8)
	RecordErrorByComponent("ingest", "parse_error")

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected metric families on the global registry")
	}
}
