// Package config handles application configuration loading from environment
// variables and an optional .env file. It provides a centralized Config
// struct used by both binaries.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendValkey   = "valkey"
	BackendS3       = "s3"
)

// Backends lists every valid STORE_BACKEND value.
var Backends = []string{BackendMemory, BackendSQLite, BackendPostgres, BackendValkey, BackendS3}

// AIProviderConfig is the credentials and model of one LLM provider.
type AIProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Record store
	StoreBackend string
	SQLitePath   string
	SeedData     bool

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	ValkeySentSet  bool // keep the broadcast sent set in Valkey

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Prefix    string

	// AI provider settings
	AIProvider  string // "gemini", "openai", "mistral", "claude"
	AIProviders map[string]AIProviderConfig

	// Broadcast pacing and command rate limiting
	PacingBatchSize  int
	PacingDelay      time.Duration
	CommandRateLimit int // requests per minute
}

// Load reads configuration from the environment, after filling it from a
// .env file in the working directory when one exists. Variables already
// set in the environment win over the file. Returns an error for invalid
// values and for missing secrets in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend: envOrDefault("STORE_BACKEND", BackendSQLite),
		SQLitePath:   envOrDefault("SQLITE_PATH", "affiliatedesk.db"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "affiliatedesk"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "affiliatedesk"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Prefix:    envOrDefault("S3_PREFIX", "affiliatedesk"),

		AIProvider: envOrDefault("AI_PROVIDER", "gemini"),
		AIProviders: map[string]AIProviderConfig{
			"gemini":  providerFromEnv("GEMINI"),
			"openai":  providerFromEnv("OPENAI"),
			"mistral": providerFromEnv("MISTRAL"),
			"claude":  providerFromEnv("CLAUDE"),
		},
	}

	var errs []error
	cfg.ValkeyDB, errs = intVar(errs, "VALKEY_DB", 0)
	cfg.PacingBatchSize, errs = intVar(errs, "PACING_BATCH_SIZE", 0)
	cfg.CommandRateLimit, errs = intVar(errs, "COMMAND_RATE_LIMIT", 10)
	cfg.ValkeySentSet, errs = boolVar(errs, "VALKEY_SENT_SET", false)
	cfg.SeedData, errs = boolVar(errs, "SEED_DATA", cfg.IsDev())
	cfg.PacingDelay, errs = durationVar(errs, "PACING_DELAY", 0)

	if !slices.Contains(Backends, cfg.StoreBackend) {
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be one of %v, got %q", Backends, cfg.StoreBackend))
	}
	if cfg.StoreBackend == BackendS3 && (cfg.S3Endpoint == "" || cfg.S3Bucket == "") {
		errs = append(errs, errors.New("S3_ENDPOINT and S3_BUCKET must be set for the s3 backend"))
	}
	if cfg.PacingBatchSize < 0 || cfg.PacingDelay < 0 || cfg.CommandRateLimit < 1 {
		errs = append(errs, errors.New("pacing values must not be negative and COMMAND_RATE_LIMIT must be positive"))
	}

	if cfg.Env == "production" && cfg.StoreBackend == BackendPostgres && cfg.DBPassword == "changeme" {
		errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func providerFromEnv(prefix string) AIProviderConfig {
	return AIProviderConfig{
		APIKey:  os.Getenv(prefix + "_API_KEY"),
		Model:   os.Getenv(prefix + "_MODEL"),
		BaseURL: os.Getenv(prefix + "_BASE_URL"),
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intVar(errs []error, key string, fallback int) (int, []error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, errs
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return n, errs
}

func boolVar(errs []error, key string, fallback bool) (bool, []error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, errs
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return b, errs
}

func durationVar(errs []error, key string, fallback time.Duration) (time.Duration, []error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, errs
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return d, errs
}
