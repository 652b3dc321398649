// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DatabasePath         string
	CredentialsPath      string
	APIKey               string
	APIEndpoint          string
	UsageRefreshInterval time.Duration
	Debug                bool
}

// Default values
const (
	defaultUsageRefreshInterval = 30 * time.Second

	// DefaultAPIEndpoint is the MiniMax coding-plan metering endpoint.
	DefaultAPIEndpoint = "https://api.minimax.io/v1/api/openplatform/coding_plan/remains"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:         getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		CredentialsPath:      getEnvString("CREDENTIALS_PATH", getDefaultCredentialsPath()),
		APIKey:               os.Getenv("MINIMAX_API_KEY"),
		APIEndpoint:          getEnvString("MINIMAX_API_ENDPOINT", DefaultAPIEndpoint),
		UsageRefreshInterval: getEnvDuration("USAGE_REFRESH_INTERVAL", defaultUsageRefreshInterval),
		Debug:                getEnvBool("DEBUG", false),
	}

	// Ensure data directories exist
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Dir(cfg.CredentialsPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "minimax-usage-tui", ".env"),
			filepath.Join(home, ".minimax-usage-tui", ".env"),
		)
	}

	return paths
}

// configDir returns the application configuration directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "minimax-usage-tui")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	return filepath.Join(configDir(), "usage.db")
}

// getDefaultCredentialsPath returns the default path for the credentials file.
func getDefaultCredentialsPath() string {
	return filepath.Join(configDir(), "credentials.json")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the
// default. Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
