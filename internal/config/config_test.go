package config_test

import (
	"testing"

	"github.com/palate/palate/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.GroupCap, convey.ShouldEqual, 10)
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, 10<<20)
		})

		convey.Convey("Then the composite weights should follow the CMQ4 protocol", func() {
			convey.So(cfg.CompositeWeights.Tenderness, convey.ShouldEqual, 0.3)
			convey.So(cfg.CompositeWeights.Juiciness, convey.ShouldEqual, 0.1)
			convey.So(cfg.CompositeWeights.Flavor, convey.ShouldEqual, 0.3)
			convey.So(cfg.CompositeWeights.Overall, convey.ShouldEqual, 0.3)
		})
	})
}
