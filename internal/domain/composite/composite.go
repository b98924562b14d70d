// Package composite computes the CMQ4 weighted quality score for a
// single consumer record, imputing missing traits from the traits the
// consumer did answer.
package composite

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/palate/palate/internal/domain/model"
)

// validate is shared by all constructors in this package.
var validate = validator.New()

// weightSumTolerance bounds float drift when checking the sum invariant.
const weightSumTolerance = 1e-9

// Weights holds the per-trait contribution to the composite score.
// The four weights must sum to 1.0.
type Weights struct {
	Tenderness float64 `koanf:"tenderness" validate:"min=0,max=1"`
	Juiciness  float64 `koanf:"juiciness" validate:"min=0,max=1"`
	Flavor     float64 `koanf:"flavor" validate:"min=0,max=1"`
	Overall    float64 `koanf:"overall" validate:"min=0,max=1"`
}

// DefaultWeights returns the CMQ4 protocol weighting.
func DefaultWeights() Weights {
	return Weights{Tenderness: 0.3, Juiciness: 0.1, Flavor: 0.3, Overall: 0.3}
}

// Calculator scores records against a fixed weight set. It is immutable
// after construction and safe for concurrent use.
type Calculator struct {
	weights Weights
}

// New validates the weights and returns a Calculator. Weights are static
// configuration: a violation here is fatal at startup, never recoverable
// at runtime.
func New(w Weights) (*Calculator, error) {
	if err := validate.Struct(w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}
	sum := w.Tenderness + w.Juiciness + w.Flavor + w.Overall
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("%w: weights sum to %g, want 1.0", ErrInvalidWeights, sum)
	}
	return &Calculator{weights: w}, nil
}

// Score computes the weighted composite for one record, rounded to three
// decimals. A missing trait is substituted with the arithmetic mean of
// the traits the consumer answered, so a partially answered record is
// filled with the respondent's own average sentiment rather than zero.
// A record with no answers at all scores the imputed zero. The function
// is total over every combination of nil traits.
func (c *Calculator) Score(r model.ScoreRecord) float64 {
	var tally float64
	var answered int
	for _, v := range r.Traits() {
		if v != nil {
			tally += *v
			answered++
		}
	}
	var impute float64
	if answered > 0 {
		impute = tally / float64(answered)
	}

	pick := func(v *float64) float64 {
		if v == nil {
			return impute
		}
		return *v
	}

	score := pick(r.Tenderness)*c.weights.Tenderness +
		pick(r.Juiciness)*c.weights.Juiciness +
		pick(r.Flavor)*c.weights.Flavor +
		pick(r.Overall)*c.weights.Overall
	return round3(score)
}

// Weights returns the calculator's weight set.
func (c *Calculator) Weights() Weights { return c.weights }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
