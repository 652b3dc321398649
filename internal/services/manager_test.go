package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/config"
	"github.com/veymax/minimax-usage-tui/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DatabasePath:         filepath.Join(dir, "usage.db"),
		CredentialsPath:      filepath.Join(dir, "credentials.json"),
		APIEndpoint:          "http://127.0.0.1:0",
		UsageRefreshInterval: time.Hour,
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		_ = m.Close()
	})
	return m
}

func waitFor[T ServiceEvent](t *testing.T, ch chan ServiceEvent) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-ch:
			if typed, ok := event.(T); ok {
				return typed
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestPolicyChangeBroadcasts(t *testing.T) {
	m := newTestManager(t)
	ch, _ := m.Subscribe()

	if err := m.Policy().SetGlobalWarning(70); err != nil {
		t.Fatalf("SetGlobalWarning: %v", err)
	}

	event := waitFor[PolicyChangedEvent](t, ch)
	if event.Settings.GlobalWarningThreshold != 70 {
		t.Errorf("broadcast warning = %v, want 70", event.Settings.GlobalWarningThreshold)
	}
}

func TestHistoryChangeBroadcasts(t *testing.T) {
	m := newTestManager(t)
	ch, _ := m.Subscribe()

	m.History().Append(models.NewAlertHistoryEntry("m", 90, models.AlertWarning))
	waitFor[HistoryChangedEvent](t, ch)
}

func TestSnapshotChangeBroadcasts(t *testing.T) {
	m := newTestManager(t)
	ch, _ := m.Subscribe()

	m.Snapshots().RecordBatch([]models.UsageRecord{
		{ModelName: "m", TotalCount: 100, RemainingCount: 50},
	}, time.Now())
	waitFor[SnapshotsChangedEvent](t, ch)
}

func TestGetHistoryStats(t *testing.T) {
	m := newTestManager(t)

	m.Snapshots().RecordBatch([]models.UsageRecord{
		{ModelName: "a", TotalCount: 100, RemainingCount: 40},
		{ModelName: "b", TotalCount: 100, RemainingCount: 80},
	}, time.Now())

	stats := m.GetHistoryStats(models.RangeAllTime)
	if len(stats.Snapshots) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(stats.Snapshots))
	}
	if stats.Totals.TotalUsed != 80 {
		t.Errorf("TotalUsed = %d, want 80", stats.Totals.TotalUsed)
	}
	if len(stats.Daily) != 1 {
		t.Errorf("got %d daily buckets, want 1", len(stats.Daily))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	m := newTestManager(t)
	ch, _ := m.Subscribe()

	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestKeySourcePrefersCredentialsFile(t *testing.T) {
	m := newTestManager(t)

	source := keySource{creds: m.Credentials(), fallback: "env-key"}
	if got := source.APIKey(); got != "env-key" {
		t.Errorf("APIKey = %q, want fallback", got)
	}

	if err := m.Credentials().SetAPIKey("file-key"); err != nil {
		t.Fatalf("SetAPIKey: %v", err)
	}
	if got := source.APIKey(); got != "file-key" {
		t.Errorf("APIKey = %q, want file key", got)
	}
}
