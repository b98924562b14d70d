// Package model contains domain models passed between layers.
package model

// ScoreRecord represents one consumer's ratings for one sample.
// A nil trait pointer means the consumer left that trait unanswered.
// Records are produced by the ingest adapter and never mutated afterwards.
type ScoreRecord struct {
	SampleRef    string   `json:"sampleRef"`
	ConsumerID   int      `json:"consumerId"`
	ServingOrder int      `json:"servingOrder"`
	PickBatchID  string   `json:"pickBatchId,omitempty"`
	Country      string   `json:"country,omitempty"`
	Session      string   `json:"session,omitempty"`
	Tenderness   *float64 `json:"tenderness"`
	Juiciness    *float64 `json:"juiciness"`
	Flavor       *float64 `json:"flavor"`
	Overall      *float64 `json:"overall"`
}

// Traits returns the four trait values in canonical order:
// tenderness, juiciness, flavor, overall.
func (r ScoreRecord) Traits() [4]*float64 {
	return [4]*float64{r.Tenderness, r.Juiciness, r.Flavor, r.Overall}
}

// ScoredRecord is a ScoreRecord annotated with its composite score.
// The composite is computed once during sample processing and is
// immutable thereafter.
type ScoredRecord struct {
	ScoreRecord
	Composite float64 `json:"composite"`
}
