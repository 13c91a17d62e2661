package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/weekplan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.TodayDisplayCap, convey.ShouldEqual, 5)
			convey.So(cfg.RolloverCron, convey.ShouldEqual, "0 0 * * *")
			convey.So(cfg.SignalQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.DispatchWorkers, convey.ShouldEqual, max(2, runtime.NumCPU()/2))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
