// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Storage backends selectable with STORAGE.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// Storage selects the booking store: "postgres" (default) or "memory".
	Storage string

	// DatabaseURL is the Postgres connection string. Required when Storage
	// is "postgres", ignored otherwise.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// MigrateOnStart applies the embedded goose migrations before serving.
	MigrateOnStart bool

	// DefaultPageSize is the list page size used when a request omits size.
	DefaultPageSize int

	// SeedDemo creates a demo owner, bookers, and items at startup.
	SeedDemo bool
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// values that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var (
		missing []string
		invalid []error
		err     error
	)

	switch cfg.Storage {
	case StoragePostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StorageMemory:
	default:
		invalid = append(invalid, fmt.Errorf("STORAGE: unknown backend %q (want %s or %s)",
			cfg.Storage, StoragePostgres, StorageMemory))
	}

	if cfg.MaxBodyBytes, err = getEnvInt64("MAX_BODY_BYTES", 1<<20); err != nil {
		invalid = append(invalid, err)
	}
	if cfg.MigrateOnStart, err = getEnvBool("MIGRATE_ON_START", false); err != nil {
		invalid = append(invalid, err)
	}
	if cfg.SeedDemo, err = getEnvBool("SEED_DEMO", false); err != nil {
		invalid = append(invalid, err)
	}
	pageSize, err := getEnvInt64("DEFAULT_PAGE_SIZE", 10)
	if err != nil {
		invalid = append(invalid, err)
	} else if pageSize <= 0 {
		invalid = append(invalid, fmt.Errorf("DEFAULT_PAGE_SIZE: must be positive, got %d", pageSize))
	}
	cfg.DefaultPageSize = int(pageSize)

	if len(missing) > 0 {
		invalid = append([]error{
			fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", ")),
		}, invalid...)
	}
	if len(invalid) > 0 {
		return Config{}, errors.Join(invalid...)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: not an integer: %q", key, v)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s: not a boolean: %q", key, v)
	}
	return b, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
