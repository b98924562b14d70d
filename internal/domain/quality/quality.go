// Package quality derives data-quality metrics for a processed sample.
package quality

import (
	"math"

	"github.com/palate/palate/internal/domain/model"
)

const traitsPerRecord = 4

// outlierStdDevFactor sets the outlier threshold at 2x the composite
// standard deviation.
const outlierStdDevFactor = 2.0

// Grade thresholds, evaluated in strict precedence order.
const (
	excellentCompleteness = 95.0
	goodCompleteness      = 90.0
	fairCompleteness      = 80.0
	goodOutlierLimit      = 1
)

// Evaluate computes completeness, consistency, outlier count and the
// quality grade for a sample's scored records.
//
// Completeness is the share of answered trait observations out of
// records x 4, one decimal. Consistency is the population standard
// deviation of the composite scores (squared deviations divided by
// count, not count-1), three decimals. An empty input short-circuits to
// a Poor, all-zero result.
func Evaluate(records []model.ScoredRecord) model.QualityMetrics {
	m := model.QualityMetrics{Grade: model.GradePoor}
	if len(records) == 0 {
		return m
	}

	expected := len(records) * traitsPerRecord
	var answered int
	for _, r := range records {
		for _, v := range r.Traits() {
			if v != nil {
				answered++
			}
		}
	}
	m.Completeness = round1(float64(answered) / float64(expected) * 100)

	var sum float64
	for _, r := range records {
		sum += r.Composite
	}
	mean := sum / float64(len(records))

	var sqDev float64
	for _, r := range records {
		d := r.Composite - mean
		sqDev += d * d
	}
	m.Consistency = round3(math.Sqrt(sqDev / float64(len(records))))

	// Identical composites give zero consistency and therefore a zero
	// threshold no deviation can exceed.
	threshold := m.Consistency * outlierStdDevFactor
	for _, r := range records {
		if math.Abs(r.Composite-mean) > threshold {
			m.OutlierCount++
		}
	}

	switch {
	case m.Completeness >= excellentCompleteness && m.OutlierCount == 0:
		m.Grade = model.GradeExcellent
	case m.Completeness >= goodCompleteness && m.OutlierCount <= goodOutlierLimit:
		m.Grade = model.GradeGood
	case m.Completeness >= fairCompleteness:
		m.Grade = model.GradeFair
	default:
		m.Grade = model.GradePoor
	}

	return m
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
