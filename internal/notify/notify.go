// Package notify delivers desktop notifications for fired alerts.
package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/veymax/minimax-usage-tui/internal/logger"
)

// Notifier is the delivery sink for alert notifications. Delivery is best
// effort: callers log failures but never propagate them.
type Notifier interface {
	// Send delivers a notification. The identifier distinguishes repeated
	// notifications for the same model and kind; critical selects a more
	// intrusive presentation where the platform supports one.
	Send(title, body, identifier string, critical bool) error
}

// Desktop sends notifications through the OS notification center.
type Desktop struct{}

var _ Notifier = Desktop{}

// NewDesktop returns the OS-backed notifier.
func NewDesktop() Desktop {
	return Desktop{}
}

// Send delivers the notification via beeep. Critical notifications use the
// alert variant, which adds a sound on platforms that support it.
func (Desktop) Send(title, body, identifier string, critical bool) error {
	var err error
	if critical {
		err = beeep.Alert(title, body, "")
	} else {
		err = beeep.Notify(title, body, "")
	}
	if err != nil {
		logger.Error("failed to deliver notification", "id", identifier, "error", err)
	}
	return err
}
