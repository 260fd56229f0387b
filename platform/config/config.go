// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig provides settings for schema migrations.
type MigrationConfig interface {
	DatabaseConfig
	GetMigrationsDir() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// StoreConfig provides settings for lead store access.
type StoreConfig interface {
	GetStoreTimeout() time.Duration
}

// WebhookConfig provides settings for call webhook reconciliation.
type WebhookConfig interface {
	StoreConfig
	GetCallCostPerMinute() float64
	GetResolverRecentWindow() int
	GetWebhookDedupTTL() time.Duration
}

// RedisConfig provides settings for the optional Redis connection.
type RedisConfig interface {
	GetRedisURL() string
	IsRedisEnabled() bool
}

// VoiceConfig provides settings for the outbound voice provider.
type VoiceConfig interface {
	GetVoiceAPIURL() string
	GetVoiceAPIKey() string
	GetVoiceAssistantID() string
	GetVoiceTimeout() time.Duration
	IsVoiceEnabled() bool
}

// PhoneConfig provides settings for phone number normalization.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// TriggerConfig provides settings for the trigger-call endpoint.
type TriggerConfig interface {
	GetTriggerRatePerMinute() float64
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	MigrationsDir        string
	CORSAllowAll         bool
	CORSOrigins          []string
	StoreTimeout         time.Duration
	CallCostPerMinute    float64
	ResolverRecentWindow int
	RedisURL             string
	WebhookDedupTTL      time.Duration
	VoiceAPIURL          string
	VoiceAPIKey          string
	VoiceAssistantID     string
	VoiceTimeout         time.Duration
	PhoneDefaultRegion   string
	TriggerRatePerMinute float64
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string   { return c.DatabaseURL }
func (c *Config) GetMigrationsDir() string { return c.MigrationsDir }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// WebhookConfig implementation
func (c *Config) GetStoreTimeout() time.Duration    { return c.StoreTimeout }
func (c *Config) GetCallCostPerMinute() float64     { return c.CallCostPerMinute }
func (c *Config) GetResolverRecentWindow() int      { return c.ResolverRecentWindow }
func (c *Config) GetWebhookDedupTTL() time.Duration { return c.WebhookDedupTTL }

// RedisConfig implementation
func (c *Config) GetRedisURL() string  { return c.RedisURL }
func (c *Config) IsRedisEnabled() bool { return c.RedisURL != "" }

// VoiceConfig implementation
func (c *Config) GetVoiceAPIURL() string         { return c.VoiceAPIURL }
func (c *Config) GetVoiceAPIKey() string         { return c.VoiceAPIKey }
func (c *Config) GetVoiceAssistantID() string    { return c.VoiceAssistantID }
func (c *Config) GetVoiceTimeout() time.Duration { return c.VoiceTimeout }
func (c *Config) IsVoiceEnabled() bool           { return c.VoiceAPIURL != "" && c.VoiceAPIKey != "" }

// PhoneConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// TriggerConfig implementation
func (c *Config) GetTriggerRatePerMinute() float64 { return c.TriggerRatePerMinute }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		StoreTimeout:         mustDuration(getEnv("STORE_TIMEOUT", "5s")),
		CallCostPerMinute:    mustFloat(getEnv("CALL_COST_PER_MINUTE", "0.99")),
		ResolverRecentWindow: mustInt(getEnv("RESOLVER_RECENT_WINDOW", "25")),
		RedisURL:             getEnv("REDIS_URL", ""),
		WebhookDedupTTL:      mustDuration(getEnv("WEBHOOK_DEDUP_TTL", "10m")),
		VoiceAPIURL:          getEnv("VOICE_API_URL", "https://api.vapi.ai"),
		VoiceAPIKey:          getEnv("VOICE_API_KEY", ""),
		VoiceAssistantID:     getEnv("VOICE_ASSISTANT_ID", ""),
		VoiceTimeout:         mustDuration(getEnv("VOICE_TIMEOUT", "10s")),
		PhoneDefaultRegion:   strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
		TriggerRatePerMinute: mustFloat(getEnv("TRIGGER_RATE_PER_MINUTE", "30")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.StoreTimeout <= 0 {
		return nil, fmt.Errorf("STORE_TIMEOUT must be a positive duration")
	}
	if cfg.CallCostPerMinute <= 0 {
		return nil, fmt.Errorf("CALL_COST_PER_MINUTE must be positive")
	}
	if cfg.TriggerRatePerMinute <= 0 {
		return nil, fmt.Errorf("TRIGGER_RATE_PER_MINUTE must be positive")
	}
	if cfg.ResolverRecentWindow < 1 {
		return nil, fmt.Errorf("RESOLVER_RECENT_WINDOW must be at least 1")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
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
		return -1
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
