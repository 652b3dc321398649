package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewAlertHistoryEntry(t *testing.T) {
	before := time.Now()
	entry := NewAlertHistoryEntry("MiniMax-M2", 92.5, AlertWarning)
	after := time.Now()

	if entry.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a non-zero entry ID")
	}
	if entry.ModelName != "MiniMax-M2" {
		t.Errorf("ModelName = %q", entry.ModelName)
	}
	if entry.UsagePercentage != 92.5 {
		t.Errorf("UsagePercentage = %v", entry.UsagePercentage)
	}
	if entry.Kind != AlertWarning {
		t.Errorf("Kind = %v", entry.Kind)
	}
	if entry.FiredAt.Before(before) || entry.FiredAt.After(after) {
		t.Errorf("FiredAt %v outside [%v, %v]", entry.FiredAt, before, after)
	}
}

func TestAlertHistoryEntryRoundTrip(t *testing.T) {
	entry := NewAlertHistoryEntry("MiniMax-Text-01", 97.0, AlertCritical)

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded AlertHistoryEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.ID != entry.ID {
		t.Errorf("ID = %v, want %v", decoded.ID, entry.ID)
	}
	if decoded.ModelName != entry.ModelName || decoded.Kind != entry.Kind ||
		decoded.UsagePercentage != entry.UsagePercentage {
		t.Errorf("decoded entry %+v differs from original %+v", decoded, entry)
	}
	if !decoded.FiredAt.Equal(entry.FiredAt) {
		t.Errorf("FiredAt = %v, want %v", decoded.FiredAt, entry.FiredAt)
	}
}

func TestAlertKindDisplayName(t *testing.T) {
	if got := AlertWarning.DisplayName(); got != "Warning" {
		t.Errorf("AlertWarning.DisplayName() = %q", got)
	}
	if got := AlertCritical.DisplayName(); got != "Critical" {
		t.Errorf("AlertCritical.DisplayName() = %q", got)
	}
}

func TestSnoozeDurations(t *testing.T) {
	tests := []struct {
		preset SnoozeDuration
		want   time.Duration
		name   string
	}{
		{Snooze15Minutes, 15 * time.Minute, "15 minutes"},
		{Snooze1Hour, time.Hour, "1 hour"},
		{Snooze4Hours, 4 * time.Hour, "4 hours"},
		{Snooze24Hours, 24 * time.Hour, "24 hours"},
	}

	for _, tt := range tests {
		if got := tt.preset.Duration(); got != tt.want {
			t.Errorf("%v.Duration() = %v, want %v", tt.preset, got, tt.want)
		}
		if got := tt.preset.String(); got != tt.name {
			t.Errorf("%v.String() = %q, want %q", tt.preset, got, tt.name)
		}
	}

	if len(SnoozeDurations()) != 4 {
		t.Errorf("expected 4 snooze presets, got %d", len(SnoozeDurations()))
	}
}
