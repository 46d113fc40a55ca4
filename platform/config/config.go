// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for the per-IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// FinesAPIConfig provides settings for the remote fines lookup service.
type FinesAPIConfig interface {
	GetFinesAPIBaseURLs() []string
	GetFinesAPIProbe() bool
	GetFinesAPITimeout() time.Duration
	GetFinesAPIRetryAttempts() int
	GetFinesAPIRetryBaseDelay() time.Duration
}

// SearchConfig provides settings for the search orchestrator.
type SearchConfig interface {
	GetSearchBannerTTL() time.Duration
	GetSearchMaxUserRetries() int
}

// SessionConfig provides settings for search sessions and their tokens.
type SessionConfig interface {
	GetSessionIdleTTL() time.Duration
	GetSessionTokenSecret() string
}

// PreferencesConfig provides settings for the language preference store.
type PreferencesConfig interface {
	GetPreferencesStore() string
	GetPreferencesFile() string
	GetRedisURL() string
	GetDefaultLanguage() string
	GetDeviceLocale() string
}

// Preference store kinds.
const (
	PreferencesStoreFile   = "file"
	PreferencesStoreRedis  = "redis"
	PreferencesStoreMemory = "memory"
)

const devSessionTokenSecret = "dev-session-secret-change-me"

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	RateLimitRPS           float64
	RateLimitBurst         int
	FinesAPIBaseURLs       []string
	FinesAPIProbe          bool
	FinesAPITimeout        time.Duration
	FinesAPIRetryAttempts  int
	FinesAPIRetryBaseDelay time.Duration
	SearchBannerTTL        time.Duration
	SearchMaxUserRetries   int
	SessionIdleTTL         time.Duration
	SessionTokenSecret     string
	PreferencesStore       string
	PreferencesFile        string
	RedisURL               string
	DefaultLanguage        string
	DeviceLocale           string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// FinesAPIConfig implementation
func (c *Config) GetFinesAPIBaseURLs() []string            { return c.FinesAPIBaseURLs }
func (c *Config) GetFinesAPIProbe() bool                   { return c.FinesAPIProbe }
func (c *Config) GetFinesAPITimeout() time.Duration        { return c.FinesAPITimeout }
func (c *Config) GetFinesAPIRetryAttempts() int            { return c.FinesAPIRetryAttempts }
func (c *Config) GetFinesAPIRetryBaseDelay() time.Duration { return c.FinesAPIRetryBaseDelay }

// SearchConfig implementation
func (c *Config) GetSearchBannerTTL() time.Duration { return c.SearchBannerTTL }
func (c *Config) GetSearchMaxUserRetries() int      { return c.SearchMaxUserRetries }

// SessionConfig implementation
func (c *Config) GetSessionIdleTTL() time.Duration { return c.SessionIdleTTL }
func (c *Config) GetSessionTokenSecret() string    { return c.SessionTokenSecret }

// PreferencesConfig implementation
func (c *Config) GetPreferencesStore() string { return c.PreferencesStore }
func (c *Config) GetPreferencesFile() string  { return c.PreferencesFile }
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetDefaultLanguage() string  { return c.DefaultLanguage }
func (c *Config) GetDeviceLocale() string     { return c.DeviceLocale }

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool { return strings.EqualFold(c.Env, "development") }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary lookup function so tests do
// not have to mutate the process environment.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	getEnv := func(key, fallback string) string {
		if val, ok := lookup(key); ok {
			return val
		}
		return fallback
	}

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	deviceLocale := getEnv("DEVICE_LOCALE", "")
	if deviceLocale == "" {
		deviceLocale = getEnv("LANG", "")
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:           mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst:         mustInt(getEnv("RATE_LIMIT_BURST", "10")),
		FinesAPIBaseURLs:       splitCSV(getEnv("FINES_API_BASE_URLS", "https://api.police.ge")),
		FinesAPIProbe:          strings.EqualFold(getEnv("FINES_API_PROBE", "false"), "true"),
		FinesAPITimeout:        mustDuration(getEnv("FINES_API_TIMEOUT", "10s")),
		FinesAPIRetryAttempts:  mustInt(getEnv("FINES_API_RETRY_ATTEMPTS", "3")),
		FinesAPIRetryBaseDelay: mustDuration(getEnv("FINES_API_RETRY_BASE_DELAY", "1s")),
		SearchBannerTTL:        mustDuration(getEnv("SEARCH_BANNER_TTL", "3s")),
		SearchMaxUserRetries:   mustInt(getEnv("SEARCH_MAX_USER_RETRIES", "3")),
		SessionIdleTTL:         mustDuration(getEnv("SESSION_IDLE_TTL", "30m")),
		SessionTokenSecret:     getEnv("SESSION_TOKEN_SECRET", ""),
		PreferencesStore:       strings.ToLower(getEnv("PREFERENCES_STORE", PreferencesStoreFile)),
		PreferencesFile:        getEnv("PREFERENCES_FILE", "preferences.yaml"),
		RedisURL:               getEnv("REDIS_URL", ""),
		DefaultLanguage:        getEnv("DEFAULT_LANGUAGE", "ka"),
		DeviceLocale:           deviceLocale,
	}

	if len(cfg.FinesAPIBaseURLs) == 0 {
		return nil, fmt.Errorf("FINES_API_BASE_URLS requires at least one URL")
	}
	for _, raw := range cfg.FinesAPIBaseURLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("FINES_API_BASE_URLS contains invalid URL %q", raw)
		}
	}
	if cfg.FinesAPITimeout <= 0 {
		return nil, fmt.Errorf("FINES_API_TIMEOUT must be a positive duration")
	}
	if cfg.FinesAPIRetryAttempts < 1 {
		return nil, fmt.Errorf("FINES_API_RETRY_ATTEMPTS must be at least 1")
	}
	if cfg.SearchMaxUserRetries < 0 {
		return nil, fmt.Errorf("SEARCH_MAX_USER_RETRIES cannot be negative")
	}
	switch cfg.PreferencesStore {
	case PreferencesStoreFile, PreferencesStoreMemory:
	case PreferencesStoreRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when PREFERENCES_STORE is redis")
		}
	default:
		return nil, fmt.Errorf("PREFERENCES_STORE must be one of file, redis, memory")
	}
	if cfg.SessionTokenSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("SESSION_TOKEN_SECRET is required outside development")
		}
		cfg.SessionTokenSecret = devSessionTokenSecret
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
