package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/ui/components"
	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
)

// View implements app.Tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if !m.state.HasAPIKey() {
		return m.renderOnboarding()
	}

	if m.state.IsInitialLoading() {
		return styles.CenterBoth(
			m.spinner.View()+" Fetching usage data...",
			m.width, m.height)
	}

	records := m.state.GetRecords()
	if len(records) == 0 {
		msg := "No usage data available"
		if lastErr := m.state.GetLastError(); lastErr != "" {
			msg = styles.ErrorTextStyle.Render("Fetch failed: " + lastErr)
		}
		return styles.CenterBoth(msg, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(renderStatsRow(records))
	b.WriteString("\n\n")

	selected := m.state.GetSelectedModelIndex()
	for i, record := range records {
		b.WriteString(m.renderModelCard(record, i == selected))
		b.WriteString("\n")
	}

	if m.state.GetPolicy().SnoozeEndTime != nil {
		b.WriteString(styles.SnoozeBadgeStyle.Render("  alerts snoozed"))
		b.WriteString("\n")
	}

	return styles.DocStyle.Render(b.String())
}

// renderStatsRow summarizes all models in one line above the cards.
func renderStatsRow(records []models.UsageRecord) string {
	var used, remaining int
	var pctSum float64
	for _, r := range records {
		used += r.UsedCount()
		remaining += r.RemainingCount
		pctSum += r.UsagePercentage()
	}
	avg := pctSum / float64(len(records))

	return styles.TextSecondaryStyle.Render(fmt.Sprintf(
		"%d models   %d used   %d remaining   ", len(records), used, remaining)) +
		styles.GetUsageStyle(avg).Render(fmt.Sprintf("%.1f%% average", avg))
}

func (m *Model) renderModelCard(record models.UsageRecord, selected bool) string {
	cardWidth := m.width - 8
	if cardWidth < 40 {
		cardWidth = 40
	}
	barWidth := cardWidth - 24

	pct := record.UsagePercentage()

	title := styles.CardTitleStyle.Render(record.ModelName)
	status := styles.GetUsageStyle(pct).Render(models.StatusForPercentage(pct).String())

	usageLine := fmt.Sprintf("%s %s",
		components.RenderUsageBar(pct, barWidth),
		styles.GetUsageStyle(pct).Render(fmt.Sprintf("%5.1f%%", pct)))

	countsLine := styles.TextSecondaryStyle.Render(fmt.Sprintf(
		"%d of %d prompts used, %d remaining",
		record.UsedCount(), record.TotalCount, record.RemainingCount))

	windowLine := fmt.Sprintf("%s %s",
		components.RenderWindowBar(windowElapsedFraction(record), barWidth),
		styles.HelpStyle.Render(record.RemainingTimeFormatted()+" left"))

	content := strings.Join([]string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", status),
		usageLine,
		countsLine,
		windowLine,
	}, "\n")

	card := styles.CardStyle.Width(cardWidth)
	if selected {
		card = card.BorderForeground(styles.Primary)
	}
	return card.Render(content)
}

// windowElapsedFraction converts a record's remaining window time into the
// elapsed share of the whole window.
func windowElapsedFraction(record models.UsageRecord) float64 {
	total := record.WindowEnd.Sub(record.WindowStart)
	if total <= 0 {
		return 0
	}
	remaining := record.RemainingTime
	if remaining < 0 {
		remaining = 0
	}
	if remaining > total {
		remaining = total
	}
	return float64(total-remaining) / float64(total)
}

func (m *Model) renderOnboarding() string {
	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("No API key configured"))
	b.WriteString("\n\n")
	b.WriteString("Add your MiniMax API key to get started:\n\n")
	b.WriteString(styles.KeyStyle.Render(`  echo '{"api_key": "sk-..."}' > ~/.config/minimax-usage-tui/credentials.json`))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("The file is watched, usage appears as soon as the key is saved."))

	return styles.CenterBoth(
		styles.CardStyle.Render(b.String()),
		m.width, m.height)
}
