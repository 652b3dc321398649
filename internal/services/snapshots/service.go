// Package snapshots stores historical usage snapshots and derives
// range-filtered aggregates for the history tab.
package snapshots

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/store"
)

// maxSnapshots caps the retained history; the oldest snapshots are dropped
// once the cap is reached.
const maxSnapshots = 10000

// Service keeps usage snapshots in arrival order, capped at maxSnapshots.
type Service struct {
	mu        sync.RWMutex
	snapshots []models.UsageSnapshot
	store     store.Store
	onChange  func()
}

// New loads the snapshot history from the store, starting empty when no
// blob exists or the blob cannot be decoded.
func New(st store.Store) *Service {
	s := &Service{store: st}

	if st == nil {
		return s
	}

	blob, err := st.Get(store.KeyUsageSnapshots)
	if err != nil {
		logger.Error("failed to load usage snapshots", "error", err)
		return s
	}
	if blob == nil {
		return s
	}

	var snapshots []models.UsageSnapshot
	if err := json.Unmarshal(blob, &snapshots); err != nil {
		logger.Error("failed to decode usage snapshots, starting empty", "error", err)
		return s
	}
	if len(snapshots) > maxSnapshots {
		snapshots = snapshots[len(snapshots)-maxSnapshots:]
	}
	s.snapshots = snapshots
	return s
}

// OnChange registers a callback invoked after every committed write.
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// RecordBatch appends one snapshot per record, all stamped takenAt, and
// evicts the oldest snapshots past the cap. Empty batches are ignored.
func (s *Service) RecordBatch(records []models.UsageRecord, takenAt time.Time) {
	if len(records) == 0 {
		return
	}

	s.mu.Lock()
	for _, record := range records {
		s.snapshots = append(s.snapshots, models.NewUsageSnapshot(record, takenAt))
	}
	if len(s.snapshots) > maxSnapshots {
		s.snapshots = s.snapshots[len(s.snapshots)-maxSnapshots:]
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notifyChange()
}

// Clear removes all snapshots.
func (s *Service) Clear() {
	s.mu.Lock()
	s.snapshots = nil
	s.persistLocked()
	s.mu.Unlock()

	s.notifyChange()
}

// All returns every snapshot in arrival order.
func (s *Service) All() []models.UsageSnapshot {
	return s.Filter(models.RangeAllTime)
}

// Len returns the number of retained snapshots.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshots)
}

// Filter returns the snapshots taken within the range, in arrival order.
func (s *Service) Filter(r models.TimeRange) []models.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, bounded := r.Start(time.Now())
	if !bounded {
		out := make([]models.UsageSnapshot, len(s.snapshots))
		copy(out, s.snapshots)
		return out
	}

	out := make([]models.UsageSnapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		if !snap.TakenAt.Before(start) {
			out = append(out, snap)
		}
	}
	return out
}

// Aggregate sums a set of snapshots. The zero value is returned for an
// empty set.
func Aggregate(snapshots []models.UsageSnapshot) models.UsageTotals {
	if len(snapshots) == 0 {
		return models.UsageTotals{}
	}

	var totals models.UsageTotals
	var pctSum float64
	for _, snap := range snapshots {
		totals.TotalUsed += snap.UsedCount()
		totals.TotalRemaining += snap.RemainingCount
		pctSum += snap.UsagePercentage()
	}
	totals.AverageUsagePercentage = pctSum / float64(len(snapshots))
	return totals
}

// DailyRollup groups snapshots by local calendar day and sums each day's
// counts. Days are returned in ascending order.
func DailyRollup(snapshots []models.UsageSnapshot) []models.DailyUsage {
	byDay := make(map[time.Time]models.DailyUsage)
	for _, snap := range snapshots {
		year, month, dayOfMonth := snap.TakenAt.Local().Date()
		day := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.Local)

		d := byDay[day]
		d.Day = day
		d.UsedCount += snap.UsedCount()
		d.RemainingCount += snap.RemainingCount
		byDay[day] = d
	}

	days := make([]models.DailyUsage, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Day.Before(days[j].Day)
	})
	return days
}

func (s *Service) persistLocked() {
	if s.store == nil {
		return
	}

	snapshots := s.snapshots
	if snapshots == nil {
		snapshots = []models.UsageSnapshot{}
	}
	blob, err := json.Marshal(snapshots)
	if err != nil {
		logger.Error("failed to encode usage snapshots", "error", err)
		return
	}
	if err := s.store.Put(store.KeyUsageSnapshots, blob); err != nil {
		logger.Error("failed to persist usage snapshots", "error", err)
	}
}

func (s *Service) notifyChange() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
