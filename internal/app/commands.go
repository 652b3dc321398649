package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/services"
)

const (
	// DefaultTickInterval is how often the UI redraws clocks and countdowns.
	DefaultTickInterval = time.Second

	// DefaultNotificationDuration is how long a toast stays on screen.
	DefaultNotificationDuration = 4 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// defaultTickCmd returns a tick command with the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// subscribeToServicesCmd subscribes to manager events and hands the channel
// back to the update loop.
func subscribeToServicesCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ch, _ := manager.Subscribe()
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd waits for the next event on the subscription channel.
func waitForServiceEventCmd(ch chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// refreshUsageCmd kicks off an immediate usage fetch.
func refreshUsageCmd(manager *services.Manager) tea.Cmd {
	return func() tea.Msg {
		manager.RefreshUsage()
		return nil
	}
}

// NotifyCmd creates a notification command with a custom duration.
func NotifyCmd(notifType NotificationType, message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			NotifType: notifType,
			Message:   message,
			Duration:  duration,
		}
	}
}

// NotifySuccessCmd shows a success toast.
func NotifySuccessCmd(message string) tea.Cmd {
	return NotifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// NotifyErrorCmd shows an error toast.
func NotifyErrorCmd(message string) tea.Cmd {
	return NotifyCmd(NotificationError, message, 6*time.Second)
}

// NotifyWarningCmd shows a warning toast.
func NotifyWarningCmd(message string) tea.Cmd {
	return NotifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// NotifyInfoCmd shows an informational toast.
func NotifyInfoCmd(message string) tea.Cmd {
	return NotifyCmd(NotificationInfo, message, DefaultNotificationDuration)
}

// SwitchTabCmd requests a switch to the given tab.
func SwitchTabCmd(tab TabID) tea.Cmd {
	return func() tea.Msg {
		return TabSwitchMsg{Tab: tab}
	}
}

// RefreshCmd requests an immediate usage refresh from a tab.
func RefreshCmd() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}
