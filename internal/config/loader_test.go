package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/predboard/internal/config"
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
				convey.So(cfg.LeaderboardPath, convey.ShouldEqual, "leaderboard.json")
				convey.So(cfg.ActualsPath, convey.ShouldEqual, "actuals.csv")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PREDBOARD_ADDR", ":8080")
			_ = os.Setenv("PREDBOARD_LEADERBOARD_PATH", "/data/board.json")
			_ = os.Setenv("PREDBOARD_ACTUALS_PATH", "/data/truth.csv")
			_ = os.Setenv("PREDBOARD_MAX_LEADERBOARD_LIMIT", "25")
			_ = os.Setenv("PREDBOARD_WATCH_ACTUALS", "false")
			_ = os.Setenv("PREDBOARD_NAMES", "Ann,Bea")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LeaderboardPath, convey.ShouldEqual, "/data/board.json")
				convey.So(cfg.ActualsPath, convey.ShouldEqual, "/data/truth.csv")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.WatchActuals, convey.ShouldBeFalse)
				convey.So(cfg.Names, convey.ShouldResemble, []string{"Ann", "Bea"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
leaderboard_path: "/srv/leaderboard.json"
max_upload_size: "512KiB"
names:
  - Zoe
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PREDBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LeaderboardPath, convey.ShouldEqual, "/srv/leaderboard.json")
				convey.So(cfg.ActualsPath, convey.ShouldEqual, "actuals.csv")
				convey.So(cfg.UploadLimit(), convey.ShouldEqual, 512*1024)
				convey.So(cfg.Names, convey.ShouldResemble, []string{"Zoe"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
actuals_path: "/srv/actuals.csv"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PREDBOARD_CONFIG", tmpFile)
			_ = os.Setenv("PREDBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                   // Overridden by env
				convey.So(cfg.ActualsPath, convey.ShouldEqual, "/srv/actuals.csv") // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PREDBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PREDBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a config file error", func() {
				convey.So(errors.Is(err, config.ErrConfigFile), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "/non/existent/file.yaml")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PREDBOARD_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PREDBOARD_MAX_LEADERBOARD_LIMIT", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PREDBOARD_CONFIG",
		"PREDBOARD_ADDR",
		"PREDBOARD_LEADERBOARD_PATH",
		"PREDBOARD_ACTUALS_PATH",
		"PREDBOARD_MAX_LEADERBOARD_LIMIT",
		"PREDBOARD_WATCH_ACTUALS",
		"PREDBOARD_NAMES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "predboard-config-*.yaml")
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
