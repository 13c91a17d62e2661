package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/okian/weekplan/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.Store, convey.ShouldEqual, "memory")
				convey.So(cfg.TodayDisplayCap, convey.ShouldEqual, 5)
				convey.So(cfg.RedisAddr, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WEEKPLAN_ADDR", ":8080")
			_ = os.Setenv("WEEKPLAN_SIGNAL_QUEUE_SIZE", "64")
			_ = os.Setenv("WEEKPLAN_DISPATCH_WORKERS", "3")
			_ = os.Setenv("WEEKPLAN_TODAY_DISPLAY_CAP", "8")
			_ = os.Setenv("WEEKPLAN_TIMEZONE", "Asia/Tokyo")
			_ = os.Setenv("WEEKPLAN_REDIS_ADDR", "localhost:6379")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SignalQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.DispatchWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.TodayDisplayCap, convey.ShouldEqual, 8)
				convey.So(cfg.RedisAddr, convey.ShouldEqual, "localhost:6379")

				loc, err := cfg.Location()
				convey.So(err, convey.ShouldBeNil)
				convey.So(loc.String(), convey.ShouldEqual, "Asia/Tokyo")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# planner on postgres
addr: ":9090"
store: postgres
database_url: "postgres://planner@localhost/planner"
log_format: json
rollover_cron: "5 0 * * *"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WEEKPLAN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Store, convey.ShouldEqual, config.StorePostgres)
				convey.So(cfg.DatabaseURL, convey.ShouldEqual, "postgres://planner@localhost/planner")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.RolloverCron, convey.ShouldEqual, "5 0 * * *")
				convey.So(cfg.TodayDisplayCap, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When both file and environment variables are set", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\ntoday_display_cap: 3\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WEEKPLAN_CONFIG", tmpFile)
			_ = os.Setenv("WEEKPLAN_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TodayDisplayCap, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("WEEKPLAN_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WEEKPLAN_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("WEEKPLAN_SIGNAL_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name string
			env  map[string]string
			want string
		}{
			{"empty addr", map[string]string{"WEEKPLAN_ADDR": ""}, "addr must not be empty"},
			{"unknown store", map[string]string{"WEEKPLAN_STORE": "sqlite"}, `unknown store "sqlite"`},
			{"postgres without dsn", map[string]string{"WEEKPLAN_STORE": "postgres"}, "database_url is required"},
			{"bad timezone", map[string]string{"WEEKPLAN_TIMEZONE": "Mars/Olympus"}, "timezone"},
			{"bad cron", map[string]string{"WEEKPLAN_ROLLOVER_CRON": "every midnight"}, "rollover_cron"},
			{"zero display cap", map[string]string{"WEEKPLAN_TODAY_DISPLAY_CAP": "0"}, "today_display_cap"},
			{"negative display cap", map[string]string{"WEEKPLAN_TODAY_DISPLAY_CAP": "-3"}, "today_display_cap"},
			{"zero queue", map[string]string{"WEEKPLAN_SIGNAL_QUEUE_SIZE": "0"}, "signal_queue_size"},
			{"negative workers", map[string]string{"WEEKPLAN_DISPATCH_WORKERS": "-1"}, "dispatch_workers"},
		}

		for _, tc := range cases {
			convey.Convey("When the setting is a "+tc.name, func() {
				for k, v := range tc.env {
					_ = os.Setenv(k, v)
				}
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.Convey("Then it is rejected as invalid", func() {
					convey.So(cfg, convey.ShouldBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}

		convey.Convey("When the timezone is empty", func() {
			cfg := config.New()
			loc, err := cfg.Location()

			convey.Convey("Then the local zone is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(loc, convey.ShouldEqual, time.Local)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"WEEKPLAN_CONFIG",
		"WEEKPLAN_ADDR",
		"WEEKPLAN_STORE",
		"WEEKPLAN_DATABASE_URL",
		"WEEKPLAN_REDIS_ADDR",
		"WEEKPLAN_TIMEZONE",
		"WEEKPLAN_ROLLOVER_CRON",
		"WEEKPLAN_TODAY_DISPLAY_CAP",
		"WEEKPLAN_SIGNAL_QUEUE_SIZE",
		"WEEKPLAN_DISPATCH_WORKERS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "weekplan-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
