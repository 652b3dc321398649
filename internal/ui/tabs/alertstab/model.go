// Package alertstab implements the alert settings and history tab.
package alertstab

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/services/alerts"
)

// thresholdStep is the increment for threshold adjustments.
const thresholdStep = 5

// keyMap defines the alerts tab key bindings.
type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	WarningDown    key.Binding
	WarningUp      key.Binding
	CriticalDown   key.Binding
	CriticalUp     key.Binding
	ToggleOverride key.Binding
	ToggleEnabled  key.Binding
	CycleSnooze    key.Binding
	ApplySnooze    key.Binding
	Unsnooze       key.Binding
	ClearHistory   key.Binding
	ResetDefaults  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous model"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next model"),
		),
		WarningDown: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "warning -5"),
		),
		WarningUp: key.NewBinding(
			key.WithKeys("W"),
			key.WithHelp("W", "warning +5"),
		),
		CriticalDown: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "critical -5"),
		),
		CriticalUp: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "critical +5"),
		),
		ToggleOverride: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "toggle override"),
		),
		ToggleEnabled: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enable/disable alerts"),
		),
		CycleSnooze: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "snooze duration"),
		),
		ApplySnooze: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "snooze"),
		),
		Unsnooze: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unsnooze"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear history"),
		),
		ResetDefaults: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset to defaults"),
		),
	}
}

// Model is the alerts tab.
type Model struct {
	state   *app.State
	policy  *alerts.Policy
	history *alerts.HistoryLog
	keys    keyMap

	selectedModel int
	snoozeChoice  int

	width  int
	height int
}

// New creates the alerts tab.
func New(state *app.State, policy *alerts.Policy, history *alerts.HistoryLog) *Model {
	return &Model{
		state:   state,
		policy:  policy,
		history: history,
		keys:    defaultKeyMap(),
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements app.Tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedModel > 0 {
			m.selectedModel--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedModel < m.state.GetRecordCount()-1 {
			m.selectedModel++
		}

	case key.Matches(msg, m.keys.WarningDown):
		return m, m.adjustWarning(-thresholdStep)

	case key.Matches(msg, m.keys.WarningUp):
		return m, m.adjustWarning(thresholdStep)

	case key.Matches(msg, m.keys.CriticalDown):
		return m, m.adjustCritical(-thresholdStep)

	case key.Matches(msg, m.keys.CriticalUp):
		return m, m.adjustCritical(thresholdStep)

	case key.Matches(msg, m.keys.ToggleOverride):
		return m, m.toggleOverride()

	case key.Matches(msg, m.keys.ToggleEnabled):
		return m, m.toggleEnabled()

	case key.Matches(msg, m.keys.CycleSnooze):
		m.snoozeChoice = (m.snoozeChoice + 1) % len(models.SnoozeDurations())

	case key.Matches(msg, m.keys.ApplySnooze):
		choice := models.SnoozeDurations()[m.snoozeChoice]
		m.policy.Snooze(choice)
		return m, app.NotifySuccessCmd("Alerts snoozed for " + choice.String())

	case key.Matches(msg, m.keys.Unsnooze):
		if m.policy.Unsnooze() {
			return m, app.NotifyInfoCmd("Snooze lifted")
		}

	case key.Matches(msg, m.keys.ClearHistory):
		m.history.Clear()
		return m, app.NotifySuccessCmd("Alert history cleared")

	case key.Matches(msg, m.keys.ResetDefaults):
		m.policy.ResetToDefaults()
		return m, app.NotifySuccessCmd("Alert settings reset to defaults")
	}

	return m, nil
}

func (m *Model) adjustWarning(delta float64) tea.Cmd {
	settings := m.policy.Snapshot()
	target := settings.GlobalWarningThreshold + delta
	if err := m.policy.SetGlobalWarning(target); err != nil {
		return app.NotifyErrorCmd(err.Error())
	}
	return app.NotifySuccessCmd(fmt.Sprintf("Warning threshold set to %.0f%%", target))
}

func (m *Model) adjustCritical(delta float64) tea.Cmd {
	settings := m.policy.Snapshot()
	target := settings.GlobalCriticalThreshold + delta
	if err := m.policy.SetGlobalCritical(target); err != nil {
		return app.NotifyErrorCmd(err.Error())
	}
	return app.NotifySuccessCmd(fmt.Sprintf("Critical threshold set to %.0f%%", target))
}

func (m *Model) selectedModelName() string {
	records := m.state.GetRecords()
	if len(records) == 0 {
		return ""
	}
	idx := m.selectedModel
	if idx >= len(records) {
		idx = len(records) - 1
	}
	return records[idx].ModelName
}

func (m *Model) toggleOverride() tea.Cmd {
	name := m.selectedModelName()
	if name == "" {
		return app.NotifyWarningCmd("No model selected")
	}

	settings := m.policy.Snapshot()
	if _, ok := settings.PerModelOverrides[name]; ok {
		m.policy.RemoveOverride(name)
		return app.NotifyInfoCmd("Override removed for " + name)
	}

	err := m.policy.SetModelOverride(name,
		settings.GlobalWarningThreshold, settings.GlobalCriticalThreshold)
	if err != nil {
		return app.NotifyErrorCmd(err.Error())
	}
	return app.NotifySuccessCmd("Override added for " + name)
}

func (m *Model) toggleEnabled() tea.Cmd {
	name := m.selectedModelName()
	if name == "" {
		return app.NotifyWarningCmd("No model selected")
	}

	enabled := m.policy.IsModelEnabled(name)
	m.policy.SetModelEnabled(name, !enabled)
	if enabled {
		return app.NotifyInfoCmd("Alerts disabled for " + name)
	}
	return app.NotifySuccessCmd("Alerts enabled for " + name)
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.WarningUp, m.keys.CriticalUp, m.keys.CycleSnooze, m.keys.ClearHistory,
	}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.WarningDown, m.keys.WarningUp, m.keys.CriticalDown, m.keys.CriticalUp},
		{m.keys.ToggleOverride, m.keys.ToggleEnabled},
		{m.keys.CycleSnooze, m.keys.ApplySnooze, m.keys.Unsnooze},
		{m.keys.ClearHistory, m.keys.ResetDefaults},
	}
}
