package model_test

import (
	"testing"

	"github.com/palate/palate/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSampleID(t *testing.T) {
	Convey("Given pick batch and sample reference pairs", t, func() {
		Convey("When the inputs are already clean", func() {
			So(model.SampleID("PB12", "EQS-7"), ShouldEqual, "PB12_EQS-7")
		})

		Convey("When the inputs are lowercase", func() {
			So(model.SampleID("pb12", "eqs-7"), ShouldEqual, "PB12_EQS-7")
		})

		Convey("When whitespace runs appear anywhere", func() {
			So(model.SampleID("pick 12", "ref  a\tb"), ShouldEqual, "PICK_12_REF_A_B")
		})

		Convey("When called twice with equivalent spellings", func() {
			a := model.SampleID("Pick 12", "EQS 7")
			b := model.SampleID("pick  12", "eqs\t7")

			Convey("Then both target the same store entry", func() {
				So(a, ShouldEqual, b)
			})
		})
	})
}

func TestScoreRecord_Traits(t *testing.T) {
	Convey("Given a record with a mix of answered and missing traits", t, func() {
		v := 6.5
		r := model.ScoreRecord{Tenderness: &v, Flavor: &v}

		Convey("When the traits are listed", func() {
			traits := r.Traits()

			Convey("Then they appear in canonical order with nil gaps", func() {
				So(traits[0], ShouldEqual, &v)
				So(traits[1], ShouldBeNil)
				So(traits[2], ShouldEqual, &v)
				So(traits[3], ShouldBeNil)
			})
		})
	})
}
