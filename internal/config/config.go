// Package config handles configuration loading for the economic dashboard.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	FRED      FREDConfig      `mapstructure:"fred"      yaml:"fred"`
	Cache     CacheConfig     `mapstructure:"cache"     yaml:"cache"`
	Animation AnimationConfig `mapstructure:"animation" yaml:"animation"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
	Tracing   TracingConfig   `mapstructure:"tracing"   yaml:"tracing"`
}

// FREDConfig holds settings for the FRED data source.
type FREDConfig struct {
	APIKey          string `mapstructure:"api_key"            yaml:"api_key"`
	BaseURL         string `mapstructure:"base_url"           yaml:"base_url"`
	StartDate       string `mapstructure:"start_date"         yaml:"start_date"` // YYYY-MM-DD
	TimeoutSec      int    `mapstructure:"timeout_sec"        yaml:"timeout_sec"`
	RateLimitPerMin int    `mapstructure:"rate_limit_per_min" yaml:"rate_limit_per_min"`
	MaxRetries      int    `mapstructure:"max_retries"        yaml:"max_retries"`
}

// CacheConfig holds the observation table cache settings.
type CacheConfig struct {
	TTLHours int `mapstructure:"ttl_hours" yaml:"ttl_hours"`
}

// TTL returns the cache time-to-live as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// AnimationConfig holds playback settings.
type AnimationConfig struct {
	DefaultSpeed      int `mapstructure:"default_speed"        yaml:"default_speed"`
	BaseDelayMS       int `mapstructure:"base_delay_ms"        yaml:"base_delay_ms"`        // divided by speed
	MaxFramesPerSpeed int `mapstructure:"max_frames_per_speed" yaml:"max_frames_per_speed"` // stride divisor
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Host           string   `mapstructure:"host"             yaml:"host"`
	Port           int      `mapstructure:"port"             yaml:"port"`
	CORSOrigins    []string `mapstructure:"cors_origins"     yaml:"cors_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps"   yaml:"rate_limit_rps"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// TracingConfig holds OpenTelemetry tracing settings.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"  yaml:"enabled"`
	Exporter string `mapstructure:"exporter" yaml:"exporter"` // "stdout" or "none"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.econdash/config.yaml (home directory)
//  3. /etc/econdash/config.yaml (system)
//
// Environment variables override config file values.
// Format: ECONDASH_<SECTION>_<KEY>, e.g., ECONDASH_FRED_API_KEY
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".econdash"))
	v.AddConfigPath("/etc/econdash")

	v.SetEnvPrefix("ECONDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("ECONDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// ParsedStartDate parses the configured observation start date.
func (c FREDConfig) ParsedStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fred.start_date %q: %w", c.StartDate, err)
	}
	return t, nil
}

// Timeout returns the HTTP timeout for FRED requests. Zero means the client default.
func (c FREDConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func setDefaults(v *viper.Viper) {
	// FRED defaults
	v.SetDefault("fred.api_key", "")
	v.SetDefault("fred.base_url", "https://api.stlouisfed.org/fred")
	v.SetDefault("fred.start_date", "1970-01-01")
	v.SetDefault("fred.timeout_sec", 0)
	v.SetDefault("fred.rate_limit_per_min", 120) // FRED documented limit
	v.SetDefault("fred.max_retries", 0)

	v.SetDefault("cache.ttl_hours", 24)

	// Animation defaults
	v.SetDefault("animation.default_speed", 5)
	v.SetDefault("animation.base_delay_ms", 500)
	v.SetDefault("animation.max_frames_per_speed", 50)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})
	v.SetDefault("api.rate_limit_rps", 20.0)
	v.SetDefault("api.rate_limit_burst", 40)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "stdout")
}

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// The bare FRED_API_KEY variable is honoured too; the prefixed one wins.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		cfg.FRED.APIKey = key
	}
	if key := os.Getenv("ECONDASH_FRED_API_KEY"); key != "" {
		cfg.FRED.APIKey = key
	}
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
