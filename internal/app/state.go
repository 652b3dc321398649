// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/services/alerts"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	records     []models.UsageRecord
	lastUpdated time.Time
	lastError   string
	refreshing  bool
	hasAPIKey   bool

	policy       alerts.Settings
	alertHistory []models.AlertHistoryEntry

	selectedModelIndex int
	initialLoading     bool

	notifications   []Notification
	notificationSeq int
}

// NewState returns an empty state awaiting the first fetch.
func NewState() *State {
	return &State{
		policy:         alerts.DefaultSettings(),
		initialLoading: true,
	}
}

// SetRecords replaces the current usage records.
func (s *State) SetRecords(records []models.UsageRecord, takenAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.lastUpdated = takenAt
	s.initialLoading = false
}

// GetRecords returns a copy of the current usage records.
func (s *State) GetRecords() []models.UsageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.UsageRecord, len(s.records))
	copy(records, s.records)
	return records
}

// GetRecordCount returns the number of usage records.
func (s *State) GetRecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// SetLastError records the most recent fetch error, "" on success.
func (s *State) SetLastError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

// GetLastError returns the most recent fetch error message.
func (s *State) GetLastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// SetRefreshing marks whether a fetch is in flight.
func (s *State) SetRefreshing(refreshing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = refreshing
}

// IsRefreshing reports whether a fetch is in flight.
func (s *State) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshing
}

// SetHasAPIKey records whether an API key is configured.
func (s *State) SetHasAPIKey(hasKey bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasAPIKey = hasKey
}

// HasAPIKey reports whether an API key is configured.
func (s *State) HasAPIKey() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasAPIKey
}

// SetPolicy replaces the cached policy settings.
func (s *State) SetPolicy(settings alerts.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = settings
}

// GetPolicy returns the cached policy settings.
func (s *State) GetPolicy() alerts.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetAlertHistory replaces the cached alert history, newest first.
func (s *State) SetAlertHistory(entries []models.AlertHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertHistory = entries
}

// GetAlertHistory returns the cached alert history.
func (s *State) GetAlertHistory() []models.AlertHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.AlertHistoryEntry, len(s.alertHistory))
	copy(entries, s.alertHistory)
	return entries
}

// IsInitialLoading reports whether the first fetch has completed yet.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialLoading
}

// GetLastUpdated returns the time of the most recent fetch.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last fetch.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}

// GetSelectedModelIndex returns the currently selected model row.
func (s *State) GetSelectedModelIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedModelIndex
}

// SetSelectedModelIndex updates the selected model row.
func (s *State) SetSelectedModelIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedModelIndex = idx
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns all non-expired notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
