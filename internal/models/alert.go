// Package models defines data structures and domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind is the severity classification of a fired alert.
type AlertKind string

const (
	// AlertWarning is fired when usage crosses the warning threshold.
	AlertWarning AlertKind = "warning"
	// AlertCritical is fired when usage crosses the critical threshold.
	AlertCritical AlertKind = "critical"
)

// DisplayName returns the human-readable name for an alert kind.
func (k AlertKind) DisplayName() string {
	switch k {
	case AlertWarning:
		return "Warning"
	case AlertCritical:
		return "Critical"
	default:
		return string(k)
	}
}

// AlertHistoryEntry records one fired alert. Entries are immutable and
// created only by the evaluator.
type AlertHistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	FiredAt         time.Time `json:"timestamp"`
	ModelName       string    `json:"model_name"`
	Kind            AlertKind `json:"alert_type"`
	UsagePercentage float64   `json:"usage_percentage"`
}

// NewAlertHistoryEntry creates an entry stamped with a fresh ID and the
// current time.
func NewAlertHistoryEntry(modelName string, usagePercentage float64, kind AlertKind) AlertHistoryEntry {
	return AlertHistoryEntry{
		ID:              uuid.New(),
		FiredAt:         time.Now(),
		ModelName:       modelName,
		Kind:            kind,
		UsagePercentage: usagePercentage,
	}
}

// SnoozeDuration is a preset length for temporarily suppressing alerts.
type SnoozeDuration time.Duration

// Snooze presets offered in the alerts tab.
const (
	Snooze15Minutes = SnoozeDuration(15 * time.Minute)
	Snooze1Hour     = SnoozeDuration(time.Hour)
	Snooze4Hours    = SnoozeDuration(4 * time.Hour)
	Snooze24Hours   = SnoozeDuration(24 * time.Hour)
)

// SnoozeDurations lists the presets in menu order.
func SnoozeDurations() []SnoozeDuration {
	return []SnoozeDuration{Snooze15Minutes, Snooze1Hour, Snooze4Hours, Snooze24Hours}
}

// Duration returns the preset as a time.Duration.
func (d SnoozeDuration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the display name for a snooze preset.
func (d SnoozeDuration) String() string {
	switch d {
	case Snooze15Minutes:
		return "15 minutes"
	case Snooze1Hour:
		return "1 hour"
	case Snooze4Hours:
		return "4 hours"
	case Snooze24Hours:
		return "24 hours"
	default:
		return time.Duration(d).String()
	}
}
