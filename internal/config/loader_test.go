package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/wordscore/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.MaxLetters, convey.ShouldEqual, 10)
				convey.So(cfg.IdempotencyCacheSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WORDSCORE_ADDR", ":8080")
			_ = os.Setenv("WORDSCORE_STORAGE_DRIVER", "sqlite")
			_ = os.Setenv("WORDSCORE_SQLITE_PATH", "/tmp/scores.db")
			_ = os.Setenv("WORDSCORE_MAX_LETTERS", "15")
			_ = os.Setenv("WORDSCORE_RATE_LIMIT_RPS", "2.5")
			_ = os.Setenv("WORDSCORE_AUTO_MIGRATE", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/scores.db")
				convey.So(cfg.MaxLetters, convey.ShouldEqual, 15)
				convey.So(cfg.RateLimitRPS, convey.ShouldEqual, 2.5)
				convey.So(cfg.AutoMigrate, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# leaderboard settings
addr: ":9090"  # inline comment
storage_driver: postgres
postgres_host: db.internal
postgres_port: 6543
default_page_size: 25
trust_proxy_headers: true
metrics_enabled: false
metrics_prefix: edge_
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("WORDSCORE_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "postgres")
				convey.So(cfg.PostgresHost, convey.ShouldEqual, "db.internal")
				convey.So(cfg.PostgresPort, convey.ShouldEqual, 6543)
				convey.So(cfg.DefaultPageSize, convey.ShouldEqual, 25)
				convey.So(cfg.TrustProxyHeaders, convey.ShouldBeTrue)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsPrefix, convey.ShouldEqual, "edge_")
				convey.So(cfg.PostgresUser, convey.ShouldEqual, "postgres")
				convey.So(cfg.MaxLetters, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_letters: 12
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("WORDSCORE_CONFIG", tmpFile)
			_ = os.Setenv("WORDSCORE_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxLetters, convey.ShouldEqual, 12)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("WORDSCORE_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("WORDSCORE_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("WORDSCORE_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("WORDSCORE_MAX_LETTERS", "not_a_number")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a decode error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown storage driver", func() {
			_ = os.Setenv("WORDSCORE_STORAGE_DRIVER", "mongo")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"WORDSCORE_CONFIG",
		"WORDSCORE_ADDR",
		"WORDSCORE_STORAGE_DRIVER",
		"WORDSCORE_SQLITE_PATH",
		"WORDSCORE_MAX_LETTERS",
		"WORDSCORE_RATE_LIMIT_RPS",
		"WORDSCORE_AUTO_MIGRATE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "wordscore-config-*.yaml")
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
