// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and PREDBOARD_* env vars.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, also writes logs to a rotated file.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Storage selects "file" (default) or "memory" stores.
	Storage string `koanf:"storage"`

	// LeaderboardPath is the JSON leaderboard location.
	LeaderboardPath string `koanf:"leaderboard_path"`

	// ActualsPath is the CSV actuals location.
	ActualsPath string `koanf:"actuals_path"`

	// WatchActuals reloads actuals when the file changes on disk.
	WatchActuals bool `koanf:"watch_actuals"`

	// AdminSecret is the plain shared secret for the admin gate.
	AdminSecret string `koanf:"admin_secret"`

	// AdminSecretHash is a bcrypt hash; takes precedence over AdminSecret.
	AdminSecretHash string `koanf:"admin_secret_hash"`

	// MaxUploadSize caps CSV uploads, human readable ("10MB").
	MaxUploadSize string `koanf:"max_upload_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SessionTTLMinutes expires idle sessions.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// Names are offered in the name picker; "Other" allows free text.
	Names []string `koanf:"names"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Storage:             StorageFile,
		LeaderboardPath:     "leaderboard.json",
		ActualsPath:         "actuals.csv",
		WatchActuals:        true,
		AdminSecret:         "1234",
		MaxUploadSize:       "10MB",
		MaxLeaderboardLimit: 100,
		SessionTTLMinutes:   12 * 60,
		Names:               []string{"Bob", "Alex", "Ben"},
	}
}

// Validate checks field ranges and formats.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required.Error("addr must not be empty")),
		validation.Field(&c.Storage, validation.Required, validation.In(StorageFile, StorageMemory)),
		validation.Field(&c.LeaderboardPath, validation.When(c.Storage == StorageFile, validation.Required)),
		validation.Field(&c.ActualsPath, validation.When(c.Storage == StorageFile, validation.Required)),
		validation.Field(&c.MaxUploadSize, validation.Required, validation.By(isByteSize)),
		validation.Field(&c.MaxLeaderboardLimit, validation.Min(1)),
		validation.Field(&c.SessionTTLMinutes, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.AdminSecret == "" && c.AdminSecretHash == "" {
		return fmt.Errorf("%w: admin_secret or admin_secret_hash must be set", ErrInvalidConfig)
	}
	return nil
}

// UploadLimit returns MaxUploadSize in bytes.
func (c *Config) UploadLimit() int64 {
	n, err := humanize.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 0
	}
	return int64(n)
}

// SessionTTL returns the idle session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// PresetNames returns the configured names with blanks removed.
func (c *Config) PresetNames() []string {
	out := make([]string, 0, len(c.Names))
	for _, n := range c.Names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func isByteSize(value interface{}) error {
	s, _ := value.(string)
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("invalid size %q", s)
	}
	if n == 0 {
		return fmt.Errorf("size must be positive")
	}
	return nil
}
