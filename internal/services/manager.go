// Package services provides service orchestration for the TUI.
package services

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/config"
	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/notify"
	"github.com/veymax/minimax-usage-tui/internal/services/alerts"
	"github.com/veymax/minimax-usage-tui/internal/services/credentials"
	"github.com/veymax/minimax-usage-tui/internal/services/snapshots"
	"github.com/veymax/minimax-usage-tui/internal/services/usage"
	"github.com/veymax/minimax-usage-tui/internal/store"
)

type (
	// UsageUpdatedEvent is emitted after every fetch cycle, successful or
	// not. Records is empty when the fetch failed.
	UsageUpdatedEvent struct {
		Records []models.UsageRecord
		TakenAt time.Time
	}

	// UsageRefreshingEvent is emitted when a fetch cycle begins.
	UsageRefreshingEvent struct{}

	// CredentialsChangedEvent is emitted when the API key is set, cleared,
	// or changed externally.
	CredentialsChangedEvent struct {
		HasKey bool
	}

	// PolicyChangedEvent is emitted after every committed policy mutation.
	PolicyChangedEvent struct {
		Settings alerts.Settings
	}

	// HistoryChangedEvent is emitted when the alert history changes.
	HistoryChangedEvent struct{}

	// SnapshotsChangedEvent is emitted when the snapshot history changes.
	SnapshotsChangedEvent struct{}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (UsageUpdatedEvent) isServiceEvent()       {}
func (UsageRefreshingEvent) isServiceEvent()    {}
func (CredentialsChangedEvent) isServiceEvent() {}
func (PolicyChangedEvent) isServiceEvent()      {}
func (HistoryChangedEvent) isServiceEvent()     {}
func (SnapshotsChangedEvent) isServiceEvent()   {}
func (ErrorEvent) isServiceEvent()              {}

// keySource resolves the API key for each fetch: the credentials file
// wins, the environment key is the fallback.
type keySource struct {
	creds    *credentials.Service
	fallback string
}

func (k keySource) APIKey() string {
	if key := k.creds.APIKey(); key != "" {
		return key
	}
	return k.fallback
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	credentials *credentials.Service
	usage       *usage.Service
	policy      *alerts.Policy
	history     *alerts.HistoryLog
	evaluator   *alerts.Evaluator
	snapshots   *snapshots.Service
	blobs       store.Store
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
}

// NewManager creates a new service manager. When the database cannot be
// opened the manager falls back to an in-memory store, so the dashboard
// stays usable without persistence for the session.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		stopChan: make(chan struct{}),
	}

	blobs, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Warn("failed to open database, persistence disabled", "path", cfg.DatabasePath, "error", err)
		m.blobs = store.NewMemory()
	} else {
		m.blobs = blobs
	}

	m.credentials, err = credentials.New(cfg.CredentialsPath)
	if err != nil {
		return nil, err
	}

	m.policy = alerts.NewPolicy(m.blobs)
	m.history = alerts.NewHistoryLog(m.blobs)
	m.evaluator = alerts.NewEvaluator(m.policy, m.history, notify.NewDesktop())
	m.snapshots = snapshots.New(m.blobs)

	usageConfig := usage.DefaultConfig()
	usageConfig.Endpoint = cfg.APIEndpoint
	usageConfig.PollInterval = cfg.UsageRefreshInterval

	m.usage = usage.New(keySource{creds: m.credentials, fallback: cfg.APIKey}, usageConfig)

	m.policy.OnChange(func() {
		m.broadcast(PolicyChangedEvent{Settings: m.policy.Snapshot()})
	})
	m.history.OnChange(func() {
		m.broadcast(HistoryChangedEvent{})
	})
	m.snapshots.OnChange(func() {
		m.broadcast(SnapshotsChangedEvent{})
	})

	go m.routeEvents()

	return m, nil
}

// Start begins the usage polling loop.
func (m *Manager) Start() {
	m.usage.Start()
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.usage.Events():
			m.handleUsageEvent(event)

		case event := <-m.credentials.Events():
			m.handleCredentialsEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleUsageEvent records snapshots and runs alert evaluation before the
// UI hears about fresh records, so the dashboard and the alert history
// never disagree about a fetch.
func (m *Manager) handleUsageEvent(event usage.Event) {
	switch event.Type {
	case usage.EventUsageRefreshing:
		m.broadcast(UsageRefreshingEvent{})

	case usage.EventUsageUpdated:
		m.snapshots.RecordBatch(event.Records, event.TakenAt)
		m.evaluator.Evaluate(event.Records)

		m.broadcast(UsageUpdatedEvent{
			Records: event.Records,
			TakenAt: event.TakenAt,
		})

	case usage.EventUsageError:
		m.broadcast(ErrorEvent{Service: "usage", Error: event.Error})
		m.broadcast(UsageUpdatedEvent{TakenAt: event.TakenAt})
	}
}

// handleCredentialsEvent broadcasts key changes and triggers an immediate
// fetch so a new key takes effect without waiting for the next tick.
func (m *Manager) handleCredentialsEvent(event credentials.Event) {
	switch event.Type {
	case credentials.EventLoaded:
		m.broadcast(CredentialsChangedEvent{HasKey: m.credentials.HasAPIKey()})

	case credentials.EventChanged, credentials.EventCleared:
		m.broadcast(CredentialsChangedEvent{HasKey: m.credentials.HasAPIKey()})
		go m.usage.Refresh()

	case credentials.EventError:
		m.broadcast(ErrorEvent{Service: "credentials", Error: event.Error})
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// RefreshUsage forces a fetch cycle outside the polling schedule.
func (m *Manager) RefreshUsage() {
	go m.usage.Refresh()
}

// HistoryStats bundles everything the history tab renders for one range.
type HistoryStats struct {
	Snapshots []models.UsageSnapshot
	Totals    models.UsageTotals
	Daily     []models.DailyUsage
}

// GetHistoryStats computes the filtered view for a time range.
func (m *Manager) GetHistoryStats(r models.TimeRange) HistoryStats {
	filtered := m.snapshots.Filter(r)
	return HistoryStats{
		Snapshots: filtered,
		Totals:    snapshots.Aggregate(filtered),
		Daily:     snapshots.DailyRollup(filtered),
	}
}

// Usage returns the usage service.
func (m *Manager) Usage() *usage.Service {
	return m.usage
}

// Credentials returns the credentials service.
func (m *Manager) Credentials() *credentials.Service {
	return m.credentials
}

// Policy returns the threshold policy.
func (m *Manager) Policy() *alerts.Policy {
	return m.policy
}

// History returns the alert history log.
func (m *Manager) History() *alerts.HistoryLog {
	return m.history
}

// Evaluator returns the alert evaluator.
func (m *Manager) Evaluator() *alerts.Evaluator {
	return m.evaluator
}

// Snapshots returns the snapshot service.
func (m *Manager) Snapshots() *snapshots.Service {
	return m.snapshots
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.usage.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.credentials.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.blobs.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
