package quality_test

import (
	"testing"

	"github.com/palate/palate/internal/domain/model"
	"github.com/palate/palate/internal/domain/quality"
	. "github.com/smartystreets/goconvey/convey"
)

// rec builds a scored record with the given composite and the given
// number of unanswered traits (0..4).
func rec(composite float64, missing int) model.ScoredRecord {
	v := 7.0
	traits := make([]*float64, 4)
	for i := missing; i < 4; i++ {
		traits[i] = &v
	}
	return model.ScoredRecord{
		ScoreRecord: model.ScoreRecord{
			Tenderness: traits[0],
			Juiciness:  traits[1],
			Flavor:     traits[2],
			Overall:    traits[3],
		},
		Composite: composite,
	}
}

func repeat(r model.ScoredRecord, n int) []model.ScoredRecord {
	out := make([]model.ScoredRecord, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func TestEvaluate(t *testing.T) {
	Convey("Given an empty sample", t, func() {
		m := quality.Evaluate(nil)

		Convey("Then evaluation short-circuits to Poor with zero metrics", func() {
			So(m.Completeness, ShouldEqual, 0.0)
			So(m.Consistency, ShouldEqual, 0.0)
			So(m.OutlierCount, ShouldEqual, 0)
			So(m.Grade, ShouldEqual, model.GradePoor)
		})
	})

	Convey("Given a fully answered, perfectly consistent sample", t, func() {
		m := quality.Evaluate(repeat(rec(7.2, 0), 8))

		Convey("Then completeness is 100 and consistency is zero", func() {
			So(m.Completeness, ShouldEqual, 100.0)
			So(m.Consistency, ShouldEqual, 0.0)
		})

		Convey("And no record can exceed the zero outlier threshold", func() {
			So(m.OutlierCount, ShouldEqual, 0)
		})

		Convey("And the grade is Excellent, never falling through to Good", func() {
			So(m.Grade, ShouldEqual, model.GradeExcellent)
		})
	})

	Convey("Given samples with missing trait values", t, func() {
		Convey("When one of two records misses a single trait", func() {
			m := quality.Evaluate([]model.ScoredRecord{rec(7.0, 1), rec(7.0, 0)})

			Convey("Then completeness reflects the 7 of 8 answered observations", func() {
				So(m.Completeness, ShouldEqual, 87.5)
				So(m.Grade, ShouldEqual, model.GradeFair)
			})
		})

		Convey("When nulls are introduced while record count stays fixed", func() {
			base := quality.Evaluate(repeat(rec(7.0, 0), 5))
			one := quality.Evaluate(append(repeat(rec(7.0, 0), 4), rec(7.0, 1)))
			two := quality.Evaluate(append(repeat(rec(7.0, 0), 4), rec(7.0, 2)))

			Convey("Then completeness is monotonically non-increasing", func() {
				So(one.Completeness, ShouldBeLessThanOrEqualTo, base.Completeness)
				So(two.Completeness, ShouldBeLessThanOrEqualTo, one.Completeness)
			})
		})

		Convey("When fewer than 80 percent of observations are answered", func() {
			m := quality.Evaluate(repeat(rec(7.0, 1), 4))

			Convey("Then the sample grades Poor", func() {
				So(m.Completeness, ShouldEqual, 75.0)
				So(m.Grade, ShouldEqual, model.GradePoor)
			})
		})
	})

	Convey("Given a sample with one extreme composite score", t, func() {
		records := append(repeat(rec(7.0, 0), 9), rec(2.0, 0))
		m := quality.Evaluate(records)

		Convey("Then the population standard deviation is computed over count", func() {
			// mean 6.5, variance 22.5/10 = 2.25, stddev 1.5
			So(m.Consistency, ShouldEqual, 1.5)
		})

		Convey("And only the extreme record exceeds two standard deviations", func() {
			So(m.OutlierCount, ShouldEqual, 1)
		})

		Convey("And the single outlier caps the grade at Good", func() {
			So(m.Completeness, ShouldEqual, 100.0)
			So(m.Grade, ShouldEqual, model.GradeGood)
		})
	})

	Convey("Given completeness in the Good band with a missing trait", t, func() {
		records := append(repeat(rec(7.0, 0), 9), rec(7.0, 3))
		m := quality.Evaluate(records)

		Convey("Then 37 of 40 observations grade Good", func() {
			So(m.Completeness, ShouldEqual, 92.5)
			So(m.OutlierCount, ShouldEqual, 0)
			So(m.Grade, ShouldEqual, model.GradeGood)
		})
	})
}
