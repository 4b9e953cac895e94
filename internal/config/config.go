// Package config loads the service configuration from an optional YAML
// file and the environment, with sensible defaults for every knob.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sampleflix/sampleflix/internal/cache"
	"github.com/sampleflix/sampleflix/internal/storage"
)

// RateLimitConfig tunes the per-client request limiter.
type RateLimitConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Limit      float64       `mapstructure:"limit"`
	Burst      int           `mapstructure:"burst"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// APIConfig defines the HTTP server configuration.
type APIConfig struct {
	ListenAddress string          `mapstructure:"listen_address"`
	ReadTimeout   time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration   `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration   `mapstructure:"idle_timeout"`
	EnableCORS    bool            `mapstructure:"enable_cors"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
}

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
}

// PaginationConfig bounds list reads.
type PaginationConfig struct {
	DefaultPageSize int64 `mapstructure:"default_page_size"`
	MaxPageSize     int64 `mapstructure:"max_page_size"`
}

// Config holds the complete application configuration.
type Config struct {
	Environment string           `mapstructure:"environment"`
	API         APIConfig        `mapstructure:"api"`
	Database    storage.Config   `mapstructure:"database"`
	Auth        AuthConfig       `mapstructure:"auth"`
	Cache       cache.Config     `mapstructure:"cache"`
	Pagination  PaginationConfig `mapstructure:"pagination"`
}

// Load reads configuration from config.yaml (if present) and the
// environment. Environment variables use the SAMPLEFLIX_ prefix with
// underscores for nesting, e.g. SAMPLEFLIX_DATABASE_URI.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("SAMPLEFLIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; defaults and environment cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Database.URI == "" {
		return fmt.Errorf("config: database.uri is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret is required")
	}
	if c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("config: pagination.default_page_size exceeds max_page_size")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("api.listen_address", ":8080")
	v.SetDefault("api.read_timeout", 30*time.Second)
	v.SetDefault("api.write_timeout", 30*time.Second)
	v.SetDefault("api.idle_timeout", 90*time.Second)
	v.SetDefault("api.enable_cors", false)
	v.SetDefault("api.rate_limit.enabled", true)
	v.SetDefault("api.rate_limit.limit", 50.0)
	v.SetDefault("api.rate_limit.burst", 100)
	v.SetDefault("api.rate_limit.expiration", time.Hour)

	v.SetDefault("database.database", "sampleflix")
	v.SetDefault("database.connect_timeout", 10*time.Second)

	v.SetDefault("auth.jwt_expiration", 4*time.Hour)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.size", 1024)
	v.SetDefault("cache.ttl", time.Minute)

	v.SetDefault("pagination.default_page_size", 20)
	v.SetDefault("pagination.max_page_size", 100)
}
