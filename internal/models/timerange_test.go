package models

import (
	"testing"
	"time"
)

func TestTimeRangeString(t *testing.T) {
	tests := []struct {
		rng  TimeRange
		want string
	}{
		{RangeToday, "Today"},
		{RangePastWeek, "Past Week"},
		{RangePastMonth, "Past Month"},
		{RangeAllTime, "All Time"},
		{TimeRange(42), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.rng.String(); got != tt.want {
			t.Errorf("TimeRange(%d).String() = %q, want %q", tt.rng, got, tt.want)
		}
	}
}

func TestTimeRangeStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.Local)

	start, bounded := RangeToday.Start(now)
	if !bounded {
		t.Fatal("RangeToday should be bounded")
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("RangeToday start = %v, want %v", start, want)
	}

	start, bounded = RangePastWeek.Start(now)
	if !bounded || !start.Equal(now.AddDate(0, 0, -7)) {
		t.Errorf("RangePastWeek start = %v (bounded=%v)", start, bounded)
	}

	start, bounded = RangePastMonth.Start(now)
	if !bounded || !start.Equal(now.AddDate(0, -1, 0)) {
		t.Errorf("RangePastMonth start = %v (bounded=%v)", start, bounded)
	}

	if _, bounded = RangeAllTime.Start(now); bounded {
		t.Error("RangeAllTime should be unbounded")
	}
}

func TestTimeRangeNext(t *testing.T) {
	got := RangeToday
	order := []TimeRange{RangePastWeek, RangePastMonth, RangeAllTime, RangeToday}
	for _, want := range order {
		got = got.Next()
		if got != want {
			t.Fatalf("Next() = %v, want %v", got, want)
		}
	}
}

func TestDailyUsagePercentage(t *testing.T) {
	tests := []struct {
		name string
		day  DailyUsage
		want float64
	}{
		{"HalfUsed", DailyUsage{UsedCount: 50, RemainingCount: 50}, 50},
		{"AllUsed", DailyUsage{UsedCount: 10, RemainingCount: 0}, 100},
		{"Empty", DailyUsage{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.day.UsagePercentage(); got != tt.want {
				t.Errorf("UsagePercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}
