package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `ignored:"true"`

	// Server configuration
	ServerHost string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8000"`
	LogMode    string `envconfig:"LOG_MODE" default:"development"`

	// Database configuration
	DBDriver   string `envconfig:"DB_DRIVER" default:"postgres"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"foodgram"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"foodgram.db"`
	// MigrationsDir is only read for postgres; sqlite uses gorm auto-migration.
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	// Redis configuration. Redis is optional: without it the token denylist
	// falls back to process memory and rate limiting is disabled.
	RedisURL      string `envconfig:"REDIS_URL"`
	RedisHost     string `envconfig:"REDIS_HOST"`
	RedisPort     string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// JWT configuration
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Media storage: "disk" or "s3"
	MediaDriver  string `envconfig:"MEDIA_DRIVER" default:"disk"`
	MediaRoot    string `envconfig:"MEDIA_ROOT" default:"media"`
	MediaBaseURL string `envconfig:"MEDIA_BASE_URL" default:"/media"`
	S3Bucket     string `envconfig:"S3_BUCKET_NAME" default:"foodgram-recipe-images"`
	S3Region     string `envconfig:"AWS_REGION" default:"us-east-1"`
	S3Endpoint   string `envconfig:"S3_ENDPOINT"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey  string `envconfig:"S3_SECRET_KEY"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Recipe creation rate limit per user, enforced through redis
	RecipeCreateLimit  int           `envconfig:"RECIPE_CREATE_LIMIT" default:"30"`
	RecipeCreateWindow time.Duration `envconfig:"RECIPE_CREATE_WINDOW" default:"1h"`

	PageSize int `envconfig:"PAGE_SIZE" default:"6"`
}

// LoadConfig reads .env (when present), the process environment and Docker
// secrets, then validates the result for the current environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	cfg.Env = GetEnvironment()

	// Sensitive values may come from Docker secrets instead of the environment
	if cfg.DBPassword == "" {
		cfg.DBPassword = readSecret("db_password")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	if cfg.RedisPassword == "" {
		cfg.RedisPassword = readSecret("redis_password")
	}
	if cfg.S3SecretKey == "" {
		cfg.S3SecretKey = readSecret("s3_secret_key")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether any redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
