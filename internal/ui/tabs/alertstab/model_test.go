package alertstab

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/services/alerts"
)

func newTestTab() (*Model, *alerts.Policy, *alerts.HistoryLog) {
	state := app.NewState()
	state.SetRecords([]models.UsageRecord{
		{ModelName: "MiniMax-M2", TotalCount: 100, RemainingCount: 50},
		{ModelName: "MiniMax-Text", TotalCount: 100, RemainingCount: 80},
	}, time.Now())

	policy := alerts.NewPolicy(nil)
	history := alerts.NewHistoryLog(nil)

	m := New(state, policy, history)
	m.SetSize(100, 40)
	return m, policy, history
}

func keyPress(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestWarningAdjustment(t *testing.T) {
	m, policy, _ := newTestTab()

	m.Update(keyPress("w"))
	if got := policy.Snapshot().GlobalWarningThreshold; got != 80 {
		t.Errorf("warning = %v, want 80", got)
	}

	m.Update(keyPress("W"))
	if got := policy.Snapshot().GlobalWarningThreshold; got != 85 {
		t.Errorf("warning = %v, want 85", got)
	}
}

func TestInvalidAdjustmentNotifiesError(t *testing.T) {
	m, policy, _ := newTestTab()

	// Critical is 95; pushing warning past it must fail
	if err := policy.SetGlobalCritical(50); err != nil {
		t.Fatalf("SetGlobalCritical: %v", err)
	}
	if err := policy.SetGlobalWarning(55); err != nil {
		t.Fatalf("SetGlobalWarning: %v", err)
	}

	_, cmd := m.Update(keyPress("w"))
	if cmd == nil {
		t.Fatal("expected a notification command")
	}
	msg, ok := cmd().(app.AddNotificationMsg)
	if !ok {
		t.Fatalf("got %T, want AddNotificationMsg", cmd())
	}
	if msg.NotifType != app.NotificationError {
		t.Error("invalid adjustment should raise an error toast")
	}
	if got := policy.Snapshot().GlobalWarningThreshold; got != 55 {
		t.Errorf("warning = %v, settings should be untouched", got)
	}
}

func TestToggleOverride(t *testing.T) {
	m, policy, _ := newTestTab()

	m.Update(keyPress("o"))
	settings := policy.Snapshot()
	override, ok := settings.PerModelOverrides["MiniMax-M2"]
	if !ok {
		t.Fatal("override not created")
	}
	if !override.IsEnabled {
		t.Error("new override should be enabled")
	}
	if override.WarningThreshold != settings.GlobalWarningThreshold {
		t.Error("override should start from the global thresholds")
	}

	m.Update(keyPress("o"))
	if _, ok := policy.Snapshot().PerModelOverrides["MiniMax-M2"]; ok {
		t.Error("second press should remove the override")
	}
}

func TestToggleEnabledForSelectedModel(t *testing.T) {
	m, policy, _ := newTestTab()

	m.Update(keyPress("j"))
	m.Update(keyPress("e"))

	if policy.IsModelEnabled("MiniMax-Text") {
		t.Error("selected model should be disabled")
	}
	if !policy.IsModelEnabled("MiniMax-M2") {
		t.Error("other models should be untouched")
	}
}

func TestSnoozeFlow(t *testing.T) {
	m, policy, _ := newTestTab()

	m.Update(keyPress("s"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !policy.IsSnoozed() {
		t.Fatal("policy should be snoozed")
	}

	until := policy.SnoozeEndTime()
	want := models.SnoozeDurations()[1].Duration()
	got := time.Until(*until)
	if got < want-time.Minute || got > want+time.Minute {
		t.Errorf("snooze remaining = %v, want about %v", got, want)
	}

	m.Update(keyPress("u"))
	if policy.IsSnoozed() {
		t.Error("u should lift the snooze")
	}
}

func TestClearHistory(t *testing.T) {
	m, _, history := newTestTab()

	history.Append(models.NewAlertHistoryEntry("m", 90, models.AlertWarning))
	m.Update(keyPress("x"))

	if history.Len() != 0 {
		t.Error("history not cleared")
	}
}

func TestResetDefaults(t *testing.T) {
	m, policy, _ := newTestTab()

	if err := policy.SetGlobalWarning(60); err != nil {
		t.Fatalf("SetGlobalWarning: %v", err)
	}
	m.Update(keyPress("R"))

	if got := policy.Snapshot().GlobalWarningThreshold; got != 85 {
		t.Errorf("warning = %v, want 85 after reset", got)
	}
}

func TestViewShowsSettingsAndHistory(t *testing.T) {
	m, policy, history := newTestTab()

	if err := policy.SetModelOverride("MiniMax-M2", 70, 50); err != nil {
		t.Fatalf("SetModelOverride: %v", err)
	}
	history.Append(models.NewAlertHistoryEntry("MiniMax-M2", 91.5, models.AlertCritical))

	view := m.View()
	for _, want := range []string{"85%", "95%", "override", "Critical", "MiniMax-M2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewShowsSnoozeCountdown(t *testing.T) {
	m, policy, _ := newTestTab()

	policy.Snooze(models.Snooze1Hour)
	view := m.View()
	if !strings.Contains(view, "Snoozed") {
		t.Error("view should show the active snooze")
	}
}
