package app

import (
	"time"

	"github.com/veymax/minimax-usage-tui/internal/services"
)

// TickMsg is sent on each UI tick interval.
type TickMsg time.Time

// SubscriptionEventMsg carries the channel returned by the service manager
// subscription so the event wait loop can be re-armed.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ServiceEventMsg wraps a single event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// RefreshMsg requests an immediate usage fetch.
type RefreshMsg struct{}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help overlay.
type ToggleHelpMsg struct{}

// AddNotificationMsg adds a toast notification.
type AddNotificationMsg struct {
	NotifType NotificationType
	Message   string
	Duration  time.Duration
}

// RemoveNotificationMsg removes a toast notification by ID.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg prunes expired toast notifications.
type ClearExpiredNotificationsMsg struct{}

// ErrorMsg carries a generic error into the update loop.
type ErrorMsg struct {
	Err error
}

func (e ErrorMsg) Error() string {
	return e.Err.Error()
}
