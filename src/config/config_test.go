package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:        "8080",
		DatabaseURL: "postgres://localhost/cartera",
		JWTSecret:   "0123456789abcdef",
		Timezone:    "America/Argentina/Buenos_Aires",
		SessionTTL:  30 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid", func(*Config) {}, ""},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }, "invalid port 'abc': must be a number"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port 70000"},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL is required"},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "at least 16 characters"},
		{"bad price url", func(c *Config) { c.PriceServiceURL = "ftp://prices" }, "invalid PRICE_SERVICE_URL"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "invalid APP_TIMEZONE"},
		{"short session", func(c *Config) { c.SessionTTL = time.Second }, "invalid session TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{Port: "x", Timezone: "UTC", SessionTTL: time.Hour}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://db/cartera")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, time.UTC, cfg.Location())
}
