package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "credentials.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestNewWithoutFile(t *testing.T) {
	s, _ := newTestService(t)

	if s.HasAPIKey() {
		t.Error("expected no API key for fresh service")
	}
	if got := s.APIKey(); got != "" {
		t.Errorf("APIKey() = %q, want empty", got)
	}
}

func TestSetAndClearAPIKey(t *testing.T) {
	s, path := newTestService(t)

	if err := s.SetAPIKey("sk-minimax-123"); err != nil {
		t.Fatalf("SetAPIKey() failed: %v", err)
	}
	if got := s.APIKey(); got != "sk-minimax-123" {
		t.Errorf("APIKey() = %q", got)
	}

	// Persisted to disk
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading credentials file failed: %v", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("credentials file is not valid JSON: %v", err)
	}
	if file.APIKey != "sk-minimax-123" {
		t.Errorf("persisted key = %q", file.APIKey)
	}

	if err := s.ClearAPIKey(); err != nil {
		t.Fatalf("ClearAPIKey() failed: %v", err)
	}
	if s.HasAPIKey() {
		t.Error("expected key cleared")
	}
}

func TestLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte(`{"api_key":"sk-existing"}`), 0o600); err != nil {
		t.Fatalf("writing fixture failed: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = s.Close() }()

	if got := s.APIKey(); got != "sk-existing" {
		t.Errorf("APIKey() = %q, want sk-existing", got)
	}
}

func TestExternalChangeDetected(t *testing.T) {
	s, path := newTestService(t)

	// Drain startup events
	drainEvents(s)

	if err := os.WriteFile(path, []byte(`{"api_key":"sk-external"}`), 0o600); err != nil {
		t.Fatalf("writing file failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool {
		return s.APIKey() == "sk-external"
	})

	// A change event should have been emitted
	select {
	case ev := <-s.Events():
		if ev.Type != EventChanged {
			t.Errorf("event type = %v, want EventChanged", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Error("no change event received")
	}
}

func drainEvents(s *Service) {
	for {
		select {
		case <-s.Events():
		default:
			return
		}
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
