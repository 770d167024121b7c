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

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AuthServiceConfig provides settings needed by the auth service.
type AuthServiceConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetWorkshopInbox() string
}

// SchedulerConfig provides settings for the asynq reminder scheduler.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	JWTAccessSecret  string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	WorkshopInbox    string
	RedisURL         string
	AsynqQueueName   string
	AsynqConcurrency int
}

// Load reads configuration from the environment, consulting a .env file when
// present. Missing required values produce an error rather than a panic so the
// caller controls startup failure handling.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:  getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		CORSAllowAll:     getBool("CORS_ALLOW_ALL", true),
		CORSOrigins:      splitAndTrim(os.Getenv("CORS_ORIGINS")),
		CORSAllowCreds:   getBool("CORS_ALLOW_CREDENTIALS", false),
		EmailEnabled:     getBool("EMAIL_ENABLED", false),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USERNAME"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Garage CRM"),
		EmailFromAddress: os.Getenv("EMAIL_FROM_ADDRESS"),
		WorkshopInbox:    os.Getenv("WORKSHOP_INBOX"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency: getInt("ASYNQ_CONCURRENCY", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string            { return c.DatabaseURL }
func (c *Config) GetJWTAccessSecret() string        { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration  { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() time.Duration { return c.RefreshTokenTTL }
func (c *Config) GetHTTPAddr() string               { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool             { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string          { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool           { return c.CORSAllowCreds }
func (c *Config) GetEmailEnabled() bool             { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string               { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                  { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string           { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string           { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string          { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string       { return c.EmailFromAddress }
func (c *Config) GetWorkshopInbox() string          { return c.WorkshopInbox }
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string         { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int          { return c.AsynqConcurrency }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
