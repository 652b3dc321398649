package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(tmp, "usage.db"))
	t.Setenv("CREDENTIALS_PATH", filepath.Join(tmp, "credentials.json"))
	t.Setenv("MINIMAX_API_KEY", "")
	t.Setenv("MINIMAX_API_ENDPOINT", "")
	t.Setenv("USAGE_REFRESH_INTERVAL", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.UsageRefreshInterval != 30*time.Second {
		t.Errorf("UsageRefreshInterval = %v, want 30s", cfg.UsageRefreshInterval)
	}
	if cfg.APIEndpoint != DefaultAPIEndpoint {
		t.Errorf("APIEndpoint = %q, want default", cfg.APIEndpoint)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
}

func TestLoadOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(tmp, "db", "usage.db"))
	t.Setenv("CREDENTIALS_PATH", filepath.Join(tmp, "creds", "credentials.json"))
	t.Setenv("MINIMAX_API_KEY", "sk-test")
	t.Setenv("MINIMAX_API_ENDPOINT", "http://localhost:9999/remains")
	t.Setenv("USAGE_REFRESH_INTERVAL", "5s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIKey != "sk-test" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.APIEndpoint != "http://localhost:9999/remains" {
		t.Errorf("APIEndpoint = %q", cfg.APIEndpoint)
	}
	if cfg.UsageRefreshInterval != 5*time.Second {
		t.Errorf("UsageRefreshInterval = %v, want 5s", cfg.UsageRefreshInterval)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"WithUnit", "45s", 45 * time.Second},
		{"BareSeconds", "60", 60 * time.Second},
		{"Invalid", "soon", 30 * time.Second},
		{"Empty", "", 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvDuration("TEST_DURATION", 30*time.Second); got != tt.want {
				t.Errorf("getEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
