package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/veymax/minimax-usage-tui/internal/logger"
	"github.com/veymax/minimax-usage-tui/internal/services"
	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
)

// TabID identifies a top-level tab.
type TabID int

const (
	// TabDashboard shows live per-model usage.
	TabDashboard TabID = iota
	// TabHistory shows recorded usage over time.
	TabHistory
	// TabAlerts shows alert settings and fired alerts.
	TabAlerts
	// TabInfo shows configuration and build info.
	TabInfo
)

// String returns the display name of the tab.
func (t TabID) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabHistory:
		return "History"
	case TabAlerts:
		return "Alerts"
	case TabInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Tab is the interface each top-level tab implements.
type Tab interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Tab, tea.Cmd)
	View() string
	SetSize(width, height int)
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// KeyMap defines the global key bindings.
type KeyMap struct {
	Tab1    key.Binding
	Tab2    key.Binding
	Tab3    key.Binding
	Tab4    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default global key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Tab2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "history"),
		),
		Tab3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "alerts"),
		),
		Tab4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "info"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev tab"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the root Bubble Tea model.
type Model struct {
	state   *State
	manager *services.Manager
	keys    KeyMap

	tabs      []Tab
	tabIDs    []TabID
	activeTab int

	eventChan chan services.ServiceEvent
	spinner   spinner.Model

	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates the root model bound to the service manager.
func NewModel(state *State, manager *services.Manager) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	return &Model{
		state:   state,
		manager: manager,
		keys:    DefaultKeyMap(),
		spinner: s,
	}
}

// SetTabs registers the tabs in display order.
func (m *Model) SetTabs(ids []TabID, tabs []Tab) {
	m.tabIDs = ids
	m.tabs = tabs
}

// State returns the shared application state.
func (m *Model) State() *State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		defaultTickCmd(),
		subscribeToServicesCmd(m.manager),
	}
	for _, tab := range m.tabs {
		if cmd := tab.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - m.chromeHeight()
		for _, tab := range m.tabs {
			tab.SetSize(m.width, contentHeight)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.state.ClearExpiredNotifications()
		_, cmd := m.updateActiveTab(msg)
		return m, tea.Batch(defaultTickCmd(), cmd)

	case spinner.TickMsg:
		var spinCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		_, tabCmd := m.updateActiveTab(msg)
		return m, tea.Batch(spinCmd, tabCmd)

	case SubscriptionEventMsg:
		m.eventChan = msg.Channel
		return m, waitForServiceEventCmd(m.eventChan)

	case ServiceEventMsg:
		cmd := m.handleServiceEvent(msg.Event)
		_, tabCmd := m.updateActiveTab(msg)
		return m, tea.Batch(cmd, tabCmd, waitForServiceEventCmd(m.eventChan))

	case RefreshMsg:
		return m, refreshUsageCmd(m.manager)

	case TabSwitchMsg:
		m.switchTab(msg.Tab)
		return m, nil

	case ToggleHelpMsg:
		m.showHelp = !m.showHelp
		return m, nil

	case AddNotificationMsg:
		m.state.AddNotification(msg.NotifType, msg.Message, msg.Duration)
		return m, nil

	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
		return m, nil

	case ClearExpiredNotificationsMsg:
		m.state.ClearExpiredNotifications()
		return m, nil

	case ErrorMsg:
		logger.Error("ui error", "error", msg.Err)
		m.state.AddNotification(NotificationError, msg.Err.Error(), 6*DefaultTickInterval)
		return m, nil
	}

	_, cmd := m.updateActiveTab(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), msg.String() == "esc", key.Matches(msg, m.keys.Quit):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Tab1):
		m.switchTab(TabDashboard)
		return m, nil

	case key.Matches(msg, m.keys.Tab2):
		m.switchTab(TabHistory)
		return m, nil

	case key.Matches(msg, m.keys.Tab3):
		m.switchTab(TabAlerts)
		return m, nil

	case key.Matches(msg, m.keys.Tab4):
		m.switchTab(TabInfo)
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % len(m.tabs)
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + len(m.tabs)) % len(m.tabs)
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, refreshUsageCmd(m.manager)
	}

	_, cmd := m.updateActiveTab(msg)
	return m, cmd
}

func (m *Model) switchTab(id TabID) {
	for i, tabID := range m.tabIDs {
		if tabID == id {
			m.activeTab = i
			return
		}
	}
}

func (m *Model) updateActiveTab(msg tea.Msg) (Tab, tea.Cmd) {
	if len(m.tabs) == 0 {
		return nil, nil
	}
	tab, cmd := m.tabs[m.activeTab].Update(msg)
	m.tabs[m.activeTab] = tab
	return tab, cmd
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.UsageRefreshingEvent:
		m.state.SetRefreshing(true)
		if m.state.IsInitialLoading() {
			m.state.SetLoadingNotification("Fetching usage data...")
		}
		return nil

	case services.UsageUpdatedEvent:
		m.state.SetRefreshing(false)
		m.state.ClearLoadingNotification()
		// Failed fetches arrive with no records and clear the dashboard;
		// the preceding ErrorEvent carries the message.
		m.state.SetRecords(e.Records, e.TakenAt)
		if e.Records != nil {
			m.state.SetLastError("")
		}
		return nil

	case services.CredentialsChangedEvent:
		m.state.SetHasAPIKey(e.HasKey)
		if e.HasKey {
			return NotifyInfoCmd("API key updated, refreshing")
		}
		return NotifyWarningCmd("API key removed")

	case services.PolicyChangedEvent:
		m.state.SetPolicy(e.Settings)
		return nil

	case services.HistoryChangedEvent:
		m.state.SetAlertHistory(m.manager.History().All())
		return nil

	case services.SnapshotsChangedEvent:
		// Handled by the history tab on its own reload cycle.
		return nil

	case services.ErrorEvent:
		m.state.SetLastError(e.Error.Error())
		return NotifyErrorCmd(fmt.Sprintf("%s: %s", e.Service, e.Error))
	}

	return nil
}

// chromeHeight is the number of rows taken by the navbar and status bar.
func (m *Model) chromeHeight() int {
	return 3
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderNavbar())
	b.WriteString("\n")

	content := ""
	if len(m.tabs) > 0 {
		content = m.tabs[m.activeTab].View()
	}
	contentHeight := m.height - m.chromeHeight()
	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	if m.showHelp {
		content = m.renderHelpOverlay(contentHeight)
	}

	content = m.overlayNotifications(content)
	b.WriteString(content)
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m *Model) renderNavbar() string {
	var items []string
	for i, id := range m.tabIDs {
		label := fmt.Sprintf(" %d %s ", i+1, id.String())
		if i == m.activeTab {
			items = append(items, styles.ActiveTabStyle.Render(label))
		} else {
			items = append(items, styles.InactiveTabStyle.Render(label))
		}
	}

	navbar := lipgloss.JoinHorizontal(lipgloss.Top, items...)

	title := styles.TitleStyle.Render(" MiniMax Usage ")
	gap := m.width - lipgloss.Width(navbar) - lipgloss.Width(title)
	if gap < 1 {
		gap = 1
	}

	return navbar + strings.Repeat(" ", gap) + title
}

func (m *Model) renderStatusBar() string {
	var left string
	switch {
	case m.state.IsRefreshing():
		left = m.spinner.View() + " refreshing"
	case !m.state.HasAPIKey():
		left = styles.WarningTextStyle.Render("no API key")
	case m.state.GetLastError() != "":
		left = styles.ErrorTextStyle.Render("fetch error")
	default:
		left = styles.SuccessTextStyle.Render("connected")
	}

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		left += styles.HelpStyle.Render("  updated " + humanize.Time(updated))
	}

	right := styles.HelpStyle.Render("? help  q quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

// overlayNotifications splices toast notifications into the top-right corner
// of the rendered content.
func (m *Model) overlayNotifications(content string) string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return content
	}

	lines := strings.Split(content, "\n")
	row := 0
	for _, n := range notifications {
		if row >= len(lines) {
			break
		}

		toast := m.renderToast(n)
		toastWidth := lipgloss.Width(toast)
		if toastWidth >= m.width {
			toast = ansi.Truncate(toast, m.width-1, "…")
			toastWidth = lipgloss.Width(toast)
		}

		line := lines[row]
		keep := m.width - toastWidth - 1
		if keep < 0 {
			keep = 0
		}
		trimmed := ansi.Truncate(line, keep, "")
		pad := keep - lipgloss.Width(trimmed)
		if pad < 0 {
			pad = 0
		}
		lines[row] = trimmed + strings.Repeat(" ", pad) + toast + " "
		row++
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderToast(n Notification) string {
	var prefix string
	var color lipgloss.TerminalColor

	switch n.Type {
	case NotificationSuccess:
		prefix = "✓"
		color = styles.Success
	case NotificationError:
		prefix = "✗"
		color = styles.Error
	case NotificationWarning:
		prefix = "!"
		color = styles.Warning
	case NotificationLoading:
		prefix = m.spinner.View()
		color = styles.Info
	default:
		prefix = "i"
		color = styles.Info
	}

	return styles.ToastStyle.
		BorderForeground(color).
		Render(prefix + " " + n.Message)
}

func (m *Model) renderHelpOverlay(contentHeight int) string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	global := [][]key.Binding{
		{m.keys.Tab1, m.keys.Tab2, m.keys.Tab3, m.keys.Tab4},
		{m.keys.NextTab, m.keys.PrevTab, m.keys.Refresh},
		{m.keys.Help, m.keys.Quit},
	}

	b.WriteString(styles.TextSecondaryStyle.Render("Global"))
	b.WriteString("\n")
	writeBindings(&b, global)

	if len(m.tabs) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.TextSecondaryStyle.Render(m.tabIDs[m.activeTab].String()))
		b.WriteString("\n")
		writeBindings(&b, m.tabs[m.activeTab].FullHelp())
	}

	card := styles.CardStyle.Render(b.String())
	return styles.CenterBoth(card, m.width, contentHeight)
}

func writeBindings(b *strings.Builder, groups [][]key.Binding) {
	for _, group := range groups {
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			help := binding.Help()
			fmt.Fprintf(b, "  %s  %s\n",
				styles.KeyStyle.Render(fmt.Sprintf("%-12s", help.Key)),
				styles.HelpStyle.Render(help.Desc))
		}
	}
}
