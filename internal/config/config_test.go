package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/cricscore/internal/config"
	"github.com/okian/cricscore/internal/domain/field"
	"github.com/okian/cricscore/internal/domain/pitch"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.MaxDeliveriesLimit, convey.ShouldEqual, 1000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the geometry matches the stock widgets", func() {
			convey.So(cfg.PitchTrapezoid(), convey.ShouldResemble, pitch.DefaultTrapezoid())
			convey.So(cfg.PitchSize(), convey.ShouldResemble, pitch.DefaultSize())
			convey.So(cfg.FieldCircle(), convey.ShouldResemble, field.DefaultCircle())
			convey.So(cfg.FieldWidgetSize(), convey.ShouldResemble, field.DefaultWidgetSize())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New()

		cases := map[string]func(*config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"unknown driver":      func(c *config.Config) { c.StoreDriver = "postgres" },
			"sqlite without path": func(c *config.Config) { c.StoreDriver = "sqlite"; c.SQLitePath = "" },
			"unknown log format":  func(c *config.Config) { c.LogFormat = "xml" },
			"zero queue":          func(c *config.Config) { c.QueueSize = 0 },
			"zero workers":        func(c *config.Config) { c.WorkerCount = 0 },
			"zero limit":          func(c *config.Config) { c.MaxDeliveriesLimit = 0 },
			"zero pitch widget":   func(c *config.Config) { c.PitchWidth = 0 },
			"negative field size": func(c *config.Config) { c.FieldSize = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("When it has "+name, func() {
				mutate(cfg)
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
