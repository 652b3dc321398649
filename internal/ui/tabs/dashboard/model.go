// Package dashboard implements the live usage tab.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/veymax/minimax-usage-tui/internal/app"
	"github.com/veymax/minimax-usage-tui/internal/services"
	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
)

// keyMap defines the dashboard tab key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Recheck key.Binding
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
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Recheck: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "re-check alerts"),
		),
	}
}

// Model is the dashboard tab.
type Model struct {
	state   *app.State
	manager *services.Manager
	keys    keyMap
	spinner spinner.Model

	width  int
	height int
}

// New creates the dashboard tab.
func New(state *app.State, manager *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		state:   state,
		manager: manager,
		keys:    defaultKeyMap(),
		spinner: s,
	}
}

// Init implements app.Tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements app.Tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	count := m.state.GetRecordCount()

	switch {
	case key.Matches(msg, m.keys.Up):
		if idx := m.state.GetSelectedModelIndex(); idx > 0 {
			m.state.SetSelectedModelIndex(idx - 1)
		}

	case key.Matches(msg, m.keys.Down):
		if idx := m.state.GetSelectedModelIndex(); idx < count-1 {
			m.state.SetSelectedModelIndex(idx + 1)
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, app.RefreshCmd()

	case key.Matches(msg, m.keys.Recheck):
		// Lets current windows alert again on the next evaluation.
		if m.manager != nil {
			m.manager.Evaluator().ResetDeduplication()
		}
		return m, tea.Batch(
			app.NotifyInfoCmd("Alert de-duplication reset"),
			app.RefreshCmd(),
		)
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
	return []key.Binding{m.keys.Up, m.keys.Down, m.keys.Refresh}
}

// FullHelp implements app.Tab.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Refresh, m.keys.Recheck},
	}
}
