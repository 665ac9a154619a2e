package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DB_PATH", "LISTEN_ADDR", "LOG_LEVEL", "ENV", "SEED_FILE",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
		"RETENTION_WINDOW", "RETENTION_SCHEDULE",
		"JWT_SECRET", "AUTH_ISSUER_URL", "AUTH_JWKS_URL", "AUTH_AUDIENCE", "TOKEN_TTL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "paasd.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100.0, cfg.RateLimitRPS)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 30*24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, "@hourly", cfg.RetentionSchedule)
	assert.Equal(t, 4*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.IsProduction())

	// Dev secret fallback comes with a warning.
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.NotEmpty(t, cfg.Warnings)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/var/lib/paasd/meta.sqlite")
	t.Setenv("JWT_SECRET", "supersecret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RETENTION_WINDOW", "168h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/paasd/meta.sqlite", cfg.DBPath)
	assert.Equal(t, "supersecret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RetentionWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_ProductionHardening(t *testing.T) {
	t.Run("dev secret is fatal", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")
		_, err := LoadFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("cors wildcard is fatal", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("JWT_SECRET", "supersecret")
		_, err := LoadFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CORS")
	})

	t.Run("hardened config loads", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENV", "production")
		t.Setenv("JWT_SECRET", "supersecret")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")
		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoadFromEnv_Validation(t *testing.T) {
	t.Run("issuer without audience", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("AUTH_ISSUER_URL", "https://issuer.example")
		_, err := LoadFromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTH_AUDIENCE")
	})

	t.Run("bad TOKEN_TTL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TOKEN_TTL", "soon")
		_, err := LoadFromEnv()
		require.Error(t, err)
	})

	t.Run("long TTL warns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JWT_SECRET", "supersecret")
		t.Setenv("TOKEN_TTL", "72h")
		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		require.NotEmpty(t, cfg.Warnings)
		assert.Contains(t, cfg.Warnings[0], "TOKEN_TTL")
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# comment\n"+
			"DB_PATH=\"/tmp/from-dotenv.sqlite\"\n"+
			"LOG_LEVEL=warn\n"+
			"\n"+
			"not a pair\n"), 0o600))

	t.Setenv("LOG_LEVEL", "error") // env wins over the file

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "/tmp/from-dotenv.sqlite", os.Getenv("DB_PATH"))
	assert.Equal(t, "error", os.Getenv("LOG_LEVEL"))

	t.Run("missing file is not an error", func(t *testing.T) {
		require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
	})
}
