// Package common provides shared utilities across the application.
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the complete application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	Portal      PortalConfig  `toml:"portal"`
	Browser     BrowserConfig `toml:"browser"`
	Cache       CacheConfig   `toml:"cache"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level      string   `toml:"level"`  // debug, info, warn, error
	Format     string   `toml:"format"` // text, json
	Output     []string `toml:"output"` // stdout, file
	TimeFormat string   `toml:"time_format"`
}

// PortalConfig configures the upstream disclosure portal client.
// Durations are strings ("20s", "500ms") parsed on access so a bad
// value degrades to the default instead of failing startup.
type PortalConfig struct {
	BaseURL         string `toml:"base_url" validate:"required,url"`
	UserAgent       string `toml:"user_agent"`
	Timeout         string `toml:"timeout"`
	RequestInterval string `toml:"request_interval"` // minimum gap between portal requests
}

// BrowserConfig configures the headless browser used for token resolution
type BrowserConfig struct {
	Headless   bool   `toml:"headless"`
	RenderWait string `toml:"render_wait"` // settle time after navigation before scraping
	Timeout    string `toml:"timeout"`
	TokenTTL   string `toml:"token_ttl"`
}

// CacheConfig configures the in-memory snapshot cache
type CacheConfig struct {
	SnapshotTTL string `toml:"snapshot_ttl"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Portal: PortalConfig{
			BaseURL:         "https://navercomp.wisereport.co.kr",
			UserAgent:       "Mozilla/5.0",
			Timeout:         "20s",
			RequestInterval: "500ms",
		},
		Browser: BrowserConfig{
			Headless:   true,
			RenderWait: "2200ms",
			Timeout:    "45s",
			TokenTTL:   "10m",
		},
		Cache: CacheConfig{
			SnapshotTTL: "15m",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files, and environment variables override everything.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment (highest priority: TABULA_ENV, fallback: GO_ENV)
	if env := os.Getenv("TABULA_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("TABULA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TABULA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("TABULA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("TABULA_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("TABULA_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitAndTrim(output, ",")
	}

	// Portal configuration
	if baseURL := os.Getenv("TABULA_PORTAL_BASE_URL"); baseURL != "" {
		config.Portal.BaseURL = baseURL
	}
	if userAgent := os.Getenv("TABULA_PORTAL_USER_AGENT"); userAgent != "" {
		config.Portal.UserAgent = userAgent
	}
	if timeout := os.Getenv("TABULA_PORTAL_TIMEOUT"); timeout != "" {
		config.Portal.Timeout = timeout
	}
	if interval := os.Getenv("TABULA_PORTAL_REQUEST_INTERVAL"); interval != "" {
		config.Portal.RequestInterval = interval
	}

	// Browser configuration
	if headless := os.Getenv("TABULA_BROWSER_HEADLESS"); headless != "" {
		if h, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = h
		}
	}
	if renderWait := os.Getenv("TABULA_BROWSER_RENDER_WAIT"); renderWait != "" {
		config.Browser.RenderWait = renderWait
	}
	if timeout := os.Getenv("TABULA_BROWSER_TIMEOUT"); timeout != "" {
		config.Browser.Timeout = timeout
	}
	if ttl := os.Getenv("TABULA_BROWSER_TOKEN_TTL"); ttl != "" {
		config.Browser.TokenTTL = ttl
	}

	// Cache configuration
	if ttl := os.Getenv("TABULA_CACHE_SNAPSHOT_TTL"); ttl != "" {
		config.Cache.SnapshotTTL = ttl
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Flags have the highest priority, above environment variables.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for structurally invalid values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true when the environment is production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// RequestTimeout returns the parsed portal request timeout
func (p PortalConfig) RequestTimeout() time.Duration {
	return durationOr(p.Timeout, 20*time.Second)
}

// RequestGap returns the parsed minimum interval between portal requests
func (p PortalConfig) RequestGap() time.Duration {
	return durationOr(p.RequestInterval, 500*time.Millisecond)
}

// RenderDelay returns the parsed post-navigation settle time
func (b BrowserConfig) RenderDelay() time.Duration {
	return durationOr(b.RenderWait, 2200*time.Millisecond)
}

// NavigateTimeout returns the parsed browser navigation timeout
func (b BrowserConfig) NavigateTimeout() time.Duration {
	return durationOr(b.Timeout, 45*time.Second)
}

// TokenCacheTTL returns the parsed token cache lifetime
func (b BrowserConfig) TokenCacheTTL() time.Duration {
	return durationOr(b.TokenTTL, 10*time.Minute)
}

// SnapshotCacheTTL returns the parsed snapshot cache lifetime
func (c CacheConfig) SnapshotCacheTTL() time.Duration {
	return durationOr(c.SnapshotTTL, 15*time.Minute)
}

func durationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitAndTrim(value, sep string) []string {
	parts := strings.Split(value, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
