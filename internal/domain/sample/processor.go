// Package sample turns one group of consumer score records into a
// processed sample result.
package sample

import (
	"time"

	"github.com/palate/palate/internal/domain/composite"
	"github.com/palate/palate/internal/domain/model"
	"github.com/palate/palate/internal/domain/quality"
	"github.com/palate/palate/internal/domain/trimmean"
)

// DefaultGroupCap bounds how many records of a group are evaluated.
// Groups keep their first records in arrival order; this is a panel-size
// policy, not a statistical sample.
const DefaultGroupCap = 10

// Processor reduces sample groups. Stateless apart from configuration
// and safe for concurrent use.
type Processor struct {
	calc     *composite.Calculator
	groupCap int
}

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithGroupCap overrides the per-sample record cap.
func WithGroupCap(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.groupCap = n
		}
	}
}

// NewProcessor creates a Processor using the given composite calculator.
func NewProcessor(calc *composite.Calculator, opts ...Option) *Processor {
	p := &Processor{
		calc:     calc,
		groupCap: DefaultGroupCap,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reduces one sample group to a SampleResult. The group is
// truncated to the configured cap, each record gets its composite score,
// and the five traits (the four rated traits plus the composite) are
// reduced to trimmed means. SampleID, PickBatchID and Country are
// attached by the caller.
//
// An empty group returns ErrEmptyGroup. The error is scoped to this
// sample only; batch orchestration must skip it and keep processing
// sibling groups.
func (p *Processor) Process(group []model.ScoreRecord) (model.SampleResult, error) {
	if len(group) == 0 {
		return model.SampleResult{}, ErrEmptyGroup
	}
	if len(group) > p.groupCap {
		group = group[:p.groupCap]
	}

	scored := make([]model.ScoredRecord, len(group))
	for i, rec := range group {
		scored[i] = model.ScoredRecord{
			ScoreRecord: rec,
			Composite:   p.calc.Score(rec),
		}
	}

	res := model.SampleResult{
		SampleRef:     group[0].SampleRef,
		ConsumerCount: len(scored),
		RawRecords:    scored,
		ProcessedAt:   time.Now().UTC(),
	}
	res.Tenderness = traitMeans(scored, func(r model.ScoredRecord) *float64 { return r.Tenderness })
	res.Juiciness = traitMeans(scored, func(r model.ScoredRecord) *float64 { return r.Juiciness })
	res.Flavor = traitMeans(scored, func(r model.ScoredRecord) *float64 { return r.Flavor })
	res.Overall = traitMeans(scored, func(r model.ScoredRecord) *float64 { return r.Overall })
	res.Composite = traitMeans(scored, func(r model.ScoredRecord) *float64 { return &r.Composite })
	res.Quality = quality.Evaluate(scored)

	return res, nil
}

// traitMeans collects one trait's non-null observations across the group
// and reduces them to trimmed means.
func traitMeans(records []model.ScoredRecord, trait func(model.ScoredRecord) *float64) model.TraitMeans {
	values := make([]float64, 0, len(records))
	for i := range records {
		if v := trait(records[i]); v != nil {
			values = append(values, *v)
		}
	}
	m := trimmean.Reduce(values)
	return model.TraitMeans{Unclipped: m.Unclipped, Clipped: m.Clipped}
}
