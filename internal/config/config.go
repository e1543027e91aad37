// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingDatabase      = errors.New("SPANNER_DATABASE is required")
	ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")
	ErrInvalidSchemaMode    = errors.New("MULTI_USER_SCHEMA must be auto, true or false")
)

// Config holds every setting of the server and the ops CLI.
type Config struct {
	SpannerDatabase string
	HTTPPort        string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	AdminEmail        string
	AdminPasswordHash string
	MultiUserSchema   string

	ImageBucket          string
	StoragePublicBaseURL string
	StorageEmulatorHost  string

	RedisAddr      string
	PageCacheTTL   time.Duration
	LoginRateLimit int

	LogLevel string
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	sessionTTL, err := getDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("PAGE_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	loginLimit, err := getInt("LOGIN_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		SpannerDatabase:      getEnv("SPANNER_DATABASE", ""),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		SessionSecret:        getEnv("SESSION_SECRET", ""),
		SessionTTL:           sessionTTL,
		CookieSecure:         getEnv("COOKIE_SECURE", "false") == "true",
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash:    getEnv("ADMIN_PASSWORD_HASH", ""),
		MultiUserSchema:      strings.ToLower(getEnv("MULTI_USER_SCHEMA", "auto")),
		ImageBucket:          getEnv("IMAGE_BUCKET", "procat-images"),
		StoragePublicBaseURL: getEnv("STORAGE_PUBLIC_BASE_URL", ""),
		StorageEmulatorHost:  getEnv("STORAGE_EMULATOR_HOST", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		PageCacheTTL:         cacheTTL,
		LoginRateLimit:       loginLimit,
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.SpannerDatabase == "" {
		return ErrMissingDatabase
	}
	if c.SessionSecret == "" {
		return ErrMissingSessionSecret
	}
	switch c.MultiUserSchema {
	case "auto", "true", "false":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSchemaMode, c.MultiUserSchema)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
