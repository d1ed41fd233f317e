package config_test

import (
	"testing"

	"github.com/okian/segno/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
			convey.So(cfg.OutPort, convey.ShouldEqual, "")
			convey.So(cfg.InPort, convey.ShouldEqual, "")
			convey.So(cfg.TicksPerSecond, convey.ShouldEqual, 960.0)
			convey.So(cfg.Lookahead, convey.ShouldEqual, 64)
			convey.So(cfg.QuantizeGrid, convey.ShouldEqual, 0.0)
			convey.So(cfg.HumanizeTiming, convey.ShouldEqual, 0.0)
			convey.So(cfg.HumanizeVelocity, convey.ShouldEqual, 0)
			convey.So(cfg.Transpose, convey.ShouldEqual, 0)
			convey.So(cfg.VelocityScale, convey.ShouldEqual, 1.0)
		})
	})
}
