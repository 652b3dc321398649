// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// UsageRecord is one per-model measurement from the metering API.
// Records are immutable once built from a fetch response.
type UsageRecord struct {
	WindowStart    time.Time     `json:"window_start"`
	WindowEnd      time.Time     `json:"window_end"`
	ModelName      string        `json:"model_name"`
	RemainingTime  time.Duration `json:"remaining_time"`
	TotalCount     int           `json:"total_count"`
	RemainingCount int           `json:"remaining_count"`
}

// UsedCount returns the number of prompts consumed in the current window.
func (r UsageRecord) UsedCount() int {
	return r.TotalCount - r.RemainingCount
}

// UsagePercentage returns consumption as a percentage of the window total.
// A window with no quota reports 0.
func (r UsageRecord) UsagePercentage() float64 {
	if r.TotalCount <= 0 {
		return 0
	}
	return float64(r.UsedCount()) / float64(r.TotalCount) * 100
}

// RemainingPercentage returns the unused share of the window.
func (r UsageRecord) RemainingPercentage() float64 {
	return 100 - r.UsagePercentage()
}

// RemainingTimeFormatted renders the remaining window duration as "2h 30m"
// or "45m" for sub-hour values.
func (r UsageRecord) RemainingTimeFormatted() string {
	total := int64(r.RemainingTime / time.Second)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// UsageSnapshot is a persisted copy of one UsageRecord at fetch time.
type UsageSnapshot struct {
	UsageRecord
	TakenAt time.Time `json:"taken_at"`
}

// NewUsageSnapshot captures a record at the given instant.
func NewUsageSnapshot(record UsageRecord, takenAt time.Time) UsageSnapshot {
	return UsageSnapshot{UsageRecord: record, TakenAt: takenAt}
}

// UsageStatus classifies a usage percentage for display purposes.
type UsageStatus int

const (
	// StatusNormal indicates usage below the default warning level.
	StatusNormal UsageStatus = iota
	// StatusWarning indicates usage at or above the default warning level.
	StatusWarning
	// StatusCritical indicates usage at or above the default critical level.
	StatusCritical
)

// StatusForPercentage maps a usage percentage onto a display status using
// the factory default thresholds.
func StatusForPercentage(pct float64) UsageStatus {
	switch {
	case pct >= 95:
		return StatusCritical
	case pct >= 85:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// String returns the display name for a usage status.
func (s UsageStatus) String() string {
	switch s {
	case StatusNormal:
		return "Normal"
	case StatusWarning:
		return "Warning"
	case StatusCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}
