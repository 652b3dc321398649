// Package models defines data structures and domain types.
package models

import "time"

// UsageTotals aggregates a set of usage snapshots.
type UsageTotals struct {
	TotalUsed              int
	TotalRemaining         int
	AverageUsagePercentage float64
}

// DailyUsage holds summed usage for one local calendar day.
type DailyUsage struct {
	Day            time.Time
	UsedCount      int
	RemainingCount int
}

// UsagePercentage returns the day's consumption share. Days with no
// recorded counts report 0.
func (d DailyUsage) UsagePercentage() float64 {
	total := d.UsedCount + d.RemainingCount
	if total <= 0 {
		return 0
	}
	return float64(d.UsedCount) / float64(total) * 100
}
