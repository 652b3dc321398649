// Package models defines data structures and domain types.
package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// RangeToday shows snapshots taken since the start of the current day.
	RangeToday TimeRange = iota
	// RangePastWeek shows snapshots from the last 7 days.
	RangePastWeek
	// RangePastMonth shows snapshots from the last calendar month.
	RangePastMonth
	// RangeAllTime shows every recorded snapshot.
	RangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case RangeToday:
		return "Today"
	case RangePastWeek:
		return "Past Week"
	case RangePastMonth:
		return "Past Month"
	case RangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Start returns the inclusive lower bound for the range relative to now,
// in local time. The second return value is false for RangeAllTime, which
// has no lower bound.
func (t TimeRange) Start(now time.Time) (time.Time, bool) {
	switch t {
	case RangeToday:
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case RangePastWeek:
		return now.AddDate(0, 0, -7), true
	case RangePastMonth:
		return now.AddDate(0, -1, 0), true
	default:
		return time.Time{}, false
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}
