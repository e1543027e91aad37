package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("SPANNER_DATABASE", "projects/p/instances/i/databases/d")
		t.Setenv("SESSION_SECRET", "s3cret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 5*time.Minute, cfg.PageCacheTTL)
		assert.Equal(t, 10, cfg.LoginRateLimit)
		assert.Equal(t, "auto", cfg.MultiUserSchema)
		assert.False(t, cfg.CookieSecure)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "9000")
		t.Setenv("SESSION_TTL", "2h")
		t.Setenv("MULTI_USER_SCHEMA", "TRUE")
		t.Setenv("COOKIE_SECURE", "true")
		t.Setenv("LOGIN_RATE_LIMIT", "3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr())
		assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
		assert.Equal(t, "true", cfg.MultiUserSchema)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, 3, cfg.LoginRateLimit)
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("PAGE_CACHE_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "PAGE_CACHE_TTL")
	})
}

func TestValidate(t *testing.T) {
	valid := Config{SpannerDatabase: "db", SessionSecret: "s", MultiUserSchema: "auto"}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"missing database", func(c *Config) { c.SpannerDatabase = "" }, ErrMissingDatabase},
		{"missing secret", func(c *Config) { c.SessionSecret = "" }, ErrMissingSessionSecret},
		{"bad schema mode", func(c *Config) { c.MultiUserSchema = "maybe" }, ErrInvalidSchemaMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
