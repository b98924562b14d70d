package model

import (
	"regexp"
	"strings"
	"time"
)

// Grade classifies the data quality of a processed sample.
type Grade string

// Quality grades, best to worst.
const (
	GradeExcellent Grade = "Excellent"
	GradeGood      Grade = "Good"
	GradeFair      Grade = "Fair"
	GradePoor      Grade = "Poor"
)

// QualityMetrics describes how trustworthy a sample's panel data is.
type QualityMetrics struct {
	// Completeness is the percentage of answered trait observations,
	// in [0,100] with one decimal.
	Completeness float64 `json:"completeness"`
	// Consistency is the population standard deviation of the
	// per-record composite scores, three decimals.
	Consistency float64 `json:"consistency"`
	// OutlierCount is the number of composite scores deviating more
	// than two standard deviations from the mean.
	OutlierCount int `json:"outlierCount"`
	Grade        Grade `json:"grade"`
}

// TraitMeans carries the unclipped and outlier-clipped mean for one trait.
type TraitMeans struct {
	Unclipped float64 `json:"unclipped"`
	Clipped   float64 `json:"clipped"`
}

// SampleResult is the processed view of one sample group. It is owned by
// the aggregate store after creation; a re-ingest of the same sample id
// replaces the entry wholesale, never patches it.
type SampleResult struct {
	SampleID      string
	SampleRef     string
	PickBatchID   string
	Country       string
	ConsumerCount int

	Tenderness TraitMeans
	Juiciness  TraitMeans
	Flavor     TraitMeans
	Overall    TraitMeans
	Composite  TraitMeans

	Quality     QualityMetrics
	RawRecords  []ScoredRecord
	ProcessedAt time.Time
}

// DashboardRow is the flattened, display-oriented projection of a
// SampleResult used by the dashboard table.
type DashboardRow struct {
	Country            string    `json:"country"`
	PickBatchID        string    `json:"pickBatchId"`
	SampleRef          string    `json:"sampleRef"`
	AverageComposite   float64   `json:"averageComposite"`
	UnclippedComposite float64   `json:"unclippedComposite"`
	ConsumerCount      int       `json:"consumerCount"`
	ProcessedAt        time.Time `json:"processedAt"`
}

// GlobalSummary aggregates every stored sample into one view.
type GlobalSummary struct {
	TotalSamples         int     `json:"totalSamples"`
	TotalUniqueConsumers int     `json:"totalUniqueConsumers"`
	AverageComposite     float64 `json:"averageComposite"`
	AverageQuality       float64 `json:"averageQuality"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// SampleID derives the store key for a (pick batch, sample ref) pair.
// The function is pure and deterministic: uppercase, with every
// whitespace run collapsed to a single underscore, so re-ingesting the
// same pair always targets the same entry.
func SampleID(pickBatchID, sampleRef string) string {
	return strings.ToUpper(whitespaceRun.ReplaceAllString(pickBatchID+"_"+sampleRef, "_"))
}
