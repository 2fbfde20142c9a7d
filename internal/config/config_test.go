package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/courtvision/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.EnvironmentName, convey.ShouldEqual, "Development")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.MockShotsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.MockShotInterval(), convey.ShouldEqual, 3500*time.Millisecond)
			convey.So(cfg.InsightsLatency(), convey.ShouldEqual, 400*time.Millisecond)
			convey.So(cfg.HistoryLimit, convey.ShouldEqual, 0)
			convey.So(cfg.MetricsRefreshInterval(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Validate(context.Background()), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with a single invalid field", t, func() {
		ctx := context.Background()
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = "" }},
			{"zero queue", func(c *config.Config) { c.QueueSize = 0 }},
			{"zero interval", func(c *config.Config) { c.MockShotIntervalMS = 0 }},
			{"zero frame rate", func(c *config.Config) { c.FrameRate = 0 }},
			{"negative latency", func(c *config.Config) { c.InsightsLatencyMS = -1 }},
			{"negative history", func(c *config.Config) { c.HistoryLimit = -5 }},
			{"zero metrics refresh", func(c *config.Config) { c.MetricsRefreshIntervalMS = 0 }},
		}
		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				cfg := config.New(ctx)
				tc.mutate(cfg)
				err := cfg.Validate(ctx)

				convey.Convey("Then it is rejected as invalid", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
