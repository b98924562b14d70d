package trimmean_test

import (
	"testing"

	"github.com/palate/palate/internal/domain/trimmean"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReduce(t *testing.T) {
	Convey("Given sequences below the clipping threshold", t, func() {
		Convey("When the sequence is empty", func() {
			m := trimmean.Reduce(nil)

			Convey("Then both means are zero", func() {
				So(m.Unclipped, ShouldEqual, 0.0)
				So(m.Clipped, ShouldEqual, 0.0)
			})
		})

		Convey("When the sequence has a single value", func() {
			m := trimmean.Reduce([]float64{7.4})

			Convey("Then both means equal that value", func() {
				So(m.Unclipped, ShouldEqual, 7.4)
				So(m.Clipped, ShouldEqual, 7.4)
			})
		})

		Convey("When the sequence has three spread-out values", func() {
			m := trimmean.Reduce([]float64{10, 5, 0})

			Convey("Then clipping is skipped entirely", func() {
				So(m.Unclipped, ShouldEqual, 5.000)
				So(m.Clipped, ShouldEqual, 5.000)
			})
		})

		Convey("When the sequence has four values", func() {
			m := trimmean.Reduce([]float64{6.0, 7.0, 8.0, 9.0})

			Convey("Then clipped still equals unclipped", func() {
				So(m.Unclipped, ShouldEqual, 7.5)
				So(m.Clipped, ShouldEqual, m.Unclipped)
			})
		})
	})

	Convey("Given sequences at or above the clipping threshold", t, func() {
		Convey("When the sequence has exactly five values", func() {
			m := trimmean.Reduce([]float64{1, 9, 5, 3, 7})

			Convey("Then the clipped mean degenerates to the median", func() {
				So(m.Unclipped, ShouldEqual, 5.0)
				So(m.Clipped, ShouldEqual, 5.0)
			})
		})

		Convey("When ten tenderness values are reduced", func() {
			values := []float64{7.0, 6.5, 6.0, 5.5, 5.0, 4.5, 4.0, 3.5, 3.0, 2.0}
			m := trimmean.Reduce(values)

			Convey("Then the lowest two and highest two are dropped", func() {
				So(m.Unclipped, ShouldEqual, 4.700)
				// (6.0+5.5+5.0+4.5+4.0+3.5)/6 = 4.750
				So(m.Clipped, ShouldEqual, 4.750)
			})

			Convey("And the clipped mean stays within the value range", func() {
				So(m.Clipped, ShouldBeGreaterThanOrEqualTo, 2.0)
				So(m.Clipped, ShouldBeLessThanOrEqualTo, 7.0)
			})
		})

		Convey("When extreme outliers bracket an otherwise tight panel", func() {
			m := trimmean.Reduce([]float64{0, 0, 6.0, 6.2, 6.1, 10, 10})

			Convey("Then the extremes do not reach the clipped mean", func() {
				So(m.Clipped, ShouldEqual, 6.1)
				So(m.Unclipped, ShouldNotEqual, m.Clipped)
			})
		})

		Convey("When the input is unsorted", func() {
			m := trimmean.Reduce([]float64{5.0, 2.0, 7.0, 3.0, 6.5, 3.5, 6.0, 4.0, 5.5, 4.5})

			Convey("Then reduction sorts a copy before trimming", func() {
				So(m.Unclipped, ShouldEqual, 4.700)
				So(m.Clipped, ShouldEqual, 4.750)
			})
		})
	})
}
