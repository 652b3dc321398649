package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUsageRecordDerived(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		remaining int
		wantUsed  int
		wantPct   float64
	}{
		{"TypicalWindow", 100, 20, 80, 80},
		{"Untouched", 100, 100, 0, 0},
		{"Exhausted", 50, 0, 50, 100},
		{"ZeroTotal", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := UsageRecord{TotalCount: tt.total, RemainingCount: tt.remaining}
			if got := r.UsedCount(); got != tt.wantUsed {
				t.Errorf("UsedCount() = %d, want %d", got, tt.wantUsed)
			}
			if got := r.UsagePercentage(); got != tt.wantPct {
				t.Errorf("UsagePercentage() = %v, want %v", got, tt.wantPct)
			}
		})
	}
}

func TestRemainingTimeFormatted(t *testing.T) {
	tests := []struct {
		name      string
		remaining time.Duration
		want      string
	}{
		{"HoursAndMinutes", 2*time.Hour + 30*time.Minute, "2h 30m"},
		{"MinutesOnly", 45 * time.Minute, "45m"},
		{"SubMinute", 30 * time.Second, "0m"},
		{"Negative", -time.Minute, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := UsageRecord{RemainingTime: tt.remaining}
			if got := r.RemainingTimeFormatted(); got != tt.want {
				t.Errorf("RemainingTimeFormatted() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUsageSnapshotRoundTrip(t *testing.T) {
	taken := time.Date(2026, 2, 13, 9, 30, 0, 0, time.UTC)
	snap := NewUsageSnapshot(UsageRecord{
		WindowStart:    taken.Add(-time.Hour),
		WindowEnd:      taken.Add(4 * time.Hour),
		ModelName:      "MiniMax-M2",
		RemainingTime:  4 * time.Hour,
		TotalCount:     100,
		RemainingCount: 20,
	}, taken)

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded UsageSnapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !decoded.TakenAt.Equal(snap.TakenAt) {
		t.Errorf("TakenAt = %v, want %v", decoded.TakenAt, snap.TakenAt)
	}
	if decoded.ModelName != snap.ModelName ||
		decoded.TotalCount != snap.TotalCount ||
		decoded.RemainingCount != snap.RemainingCount ||
		decoded.RemainingTime != snap.RemainingTime {
		t.Errorf("decoded snapshot %+v differs from original %+v", decoded, snap)
	}
	if !decoded.WindowStart.Equal(snap.WindowStart) || !decoded.WindowEnd.Equal(snap.WindowEnd) {
		t.Errorf("window bounds changed in round trip")
	}
}

func TestStatusForPercentage(t *testing.T) {
	tests := []struct {
		pct  float64
		want UsageStatus
	}{
		{0, StatusNormal},
		{84.9, StatusNormal},
		{85, StatusWarning},
		{94.9, StatusWarning},
		{95, StatusCritical},
		{100, StatusCritical},
	}

	for _, tt := range tests {
		if got := StatusForPercentage(tt.pct); got != tt.want {
			t.Errorf("StatusForPercentage(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}
