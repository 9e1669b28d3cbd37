package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "foodgram_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("TOKEN_TTL", "2h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "foodgram_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Contains(t, cfg.DSN(), "dbname=foodgram_test")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "test-secret")
	for _, k := range []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_DRIVER", "REDIS_URL", "REDIS_HOST", "PAGE_SIZE", "MEDIA_DRIVER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "disk", cfg.MediaDriver)
	assert.Equal(t, 6, cfg.PageSize)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-file\n"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("ENV", "test")
	t.Setenv("CI", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.JWTSecret)
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	cfg := &Config{Env: Production, DBDriver: "mysql", MediaDriver: "ftp", PageSize: 0, TokenTTL: time.Hour}

	err := ValidateConfig(cfg)
	require.Error(t, err)
	for _, field := range []string{"JWT_SECRET", "DB_PASSWORD", "DB_DRIVER", "MEDIA_DRIVER", "PAGE_SIZE"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "prod")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}
