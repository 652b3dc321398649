// Package history implements the usage history tab.
package history

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/services"
)

// historyLoadedMsg carries freshly computed history stats.
type historyLoadedMsg struct {
	stats services.HistoryStats
}

// keyMap defines the history tab key bindings.
type keyMap struct {
	CycleRange key.Binding
	Refresh    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// Model is the history tab.
type Model struct {
	state   *app.State
	manager *services.Manager
	keys    keyMap

	timeRange models.TimeRange
	stats     services.HistoryStats
	loaded    bool

	width  int
	height int
}

// New creates the history tab.
func New(state *app.State, manager *services.Manager) *Model {
	return &Model{
		state:     state,
		manager:   manager,
		keys:      defaultKeyMap(),
		timeRange: models.RangePastWeek,
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	r := m.timeRange
	return func() tea.Msg {
		return historyLoadedMsg{stats: m.manager.GetHistoryStats(r)}
	}
}

// Update implements app.Tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.CycleRange):
			m.timeRange = m.timeRange.Next()
			return m, m.loadCmd()

		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadCmd()
		}

	case historyLoadedMsg:
		m.stats = msg.stats
		m.loaded = true
		return m, nil

	case app.ServiceEventMsg:
		if _, ok := msg.Event.(services.SnapshotsChangedEvent); ok {
			return m, m.loadCmd()
		}
	}

	return m, nil
}

// SetSize implements app.Tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp implements app.Tab.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.CycleRange, m.keys.Refresh}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.CycleRange, m.keys.Refresh},
	}
}
