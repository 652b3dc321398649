package info

import (
	"fmt"
	"strings"

	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
	"github.com/veymax/minimax-usage-tui/internal/version"
)

// View implements app.Tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	content := styles.DocStyle.Render(strings.Join([]string{
		m.renderConfigCard(),
		m.renderKeyStatusCard(),
		m.renderAboutCard(),
	}, "\n"))

	if m.ready {
		m.viewport.SetContent(content)
		return m.viewport.View()
	}
	return content
}

func (m *Model) renderConfigCard() string {
	lines := []string{
		styles.CardTitleStyle.Render("Configuration"),
		m.renderRow("Database", m.cfg.DatabasePath),
		m.renderRow("Credentials", m.cfg.CredentialsPath),
		m.renderRow("API endpoint", m.cfg.APIEndpoint),
		m.renderRow("Refresh every", m.cfg.UsageRefreshInterval.String()),
		m.renderRow("Debug", fmt.Sprintf("%t", m.cfg.Debug)),
	}
	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderKeyStatusCard() string {
	status := styles.SuccessTextStyle.Render("configured")
	if !m.state.HasAPIKey() {
		status = styles.ErrorTextStyle.Render("missing")
	}

	lines := []string{
		styles.CardTitleStyle.Render("API key"),
		m.renderRow("Status", status),
		styles.HelpStyle.Render("The credentials file is watched for changes."),
	}
	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderAboutCard() string {
	lines := []string{
		styles.CardTitleStyle.Render("About"),
		version.Info(),
		styles.HelpStyle.Render("Polls the MiniMax coding-plan metering API and alerts before credits run out."),
	}
	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderRow(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.TextSecondaryStyle.Width(14).Render(label),
		value)
}
