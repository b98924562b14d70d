// Package trimmean reduces a trait's observations across a sample panel
// to an outlier-resistant pair of means.
package trimmean

import (
	"math"
	"sort"
)

// MinSamplesForClipping is the observation count below which clipping is
// skipped and the clipped mean equals the unclipped mean.
const MinSamplesForClipping = 5

// Fixed trim counts. The two most extreme low and high ratings are
// removed regardless of panel size, so a couple of troll or extreme
// responses cannot dominate a small panel.
const (
	clipLowCount  = 2
	clipHighCount = 2
)

// Means carries both reductions of one value sequence, three decimals each.
type Means struct {
	Unclipped float64
	Clipped   float64
}

// Reduce computes the unclipped and clipped means of values. The caller
// pre-filters nulls; an empty sequence reduces to {0, 0}. With at least
// MinSamplesForClipping observations the clipped mean averages the sorted
// sequence minus the lowest two and highest two values, which leaves at
// least one central element (for exactly five values it degenerates to
// the median).
func Reduce(values []float64) Means {
	if len(values) == 0 {
		return Means{}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	unclipped := round3(sum / float64(len(values)))

	if len(values) < MinSamplesForClipping {
		return Means{Unclipped: unclipped, Clipped: unclipped}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	central := sorted[clipLowCount : len(sorted)-clipHighCount]

	var clippedSum float64
	for _, v := range central {
		clippedSum += v
	}
	clipped := round3(clippedSum / float64(len(central)))

	return Means{Unclipped: unclipped, Clipped: clipped}
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
