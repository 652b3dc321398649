package alertstab

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/veymax/minimax-usage-tui/internal/models"
	"github.com/veymax/minimax-usage-tui/internal/services/alerts"
	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
)

const maxVisibleHistory = 8

// View implements app.Tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	sections := []string{
		m.renderSettingsCard(),
		m.renderModelsCard(),
		m.renderHistoryCard(),
	}

	return styles.DocStyle.Render(strings.Join(sections, "\n"))
}

func (m *Model) renderSettingsCard() string {
	settings := m.policy.Snapshot()

	lines := []string{
		styles.CardTitleStyle.Render("Thresholds"),
		fmt.Sprintf("Warning at   %s  %s",
			styles.WarningTextStyle.Render(fmt.Sprintf("%.0f%%", settings.GlobalWarningThreshold)),
			styles.HelpStyle.Render("(w/W)")),
		fmt.Sprintf("Critical at  %s  %s",
			styles.ErrorTextStyle.Render(fmt.Sprintf("%.0f%%", settings.GlobalCriticalThreshold)),
			styles.HelpStyle.Render("(c/C)")),
		m.renderSnoozeLine(settings),
	}

	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSnoozeLine(settings alerts.Settings) string {
	if until := settings.SnoozeEndTime; until != nil && until.After(time.Now()) {
		return styles.SnoozeBadgeStyle.Render(
			fmt.Sprintf("Snoozed, %s remaining", alerts.SnoozeRemaining(*until, time.Now()))) +
			styles.HelpStyle.Render("  (u to lift)")
	}

	choice := models.SnoozeDurations()[m.snoozeChoice]
	return styles.TextSecondaryStyle.Render("Snooze: ") +
		styles.FocusedStyle.Render(choice.String()) +
		styles.HelpStyle.Render("  (s to cycle, enter to apply)")
}

func (m *Model) renderModelsCard() string {
	records := m.state.GetRecords()
	settings := m.policy.Snapshot()

	var lines []string
	lines = append(lines, styles.CardTitleStyle.Render("Models"))

	if len(records) == 0 {
		lines = append(lines, styles.HelpStyle.Render("No models yet, waiting for usage data"))
		return styles.CardStyle.Render(strings.Join(lines, "\n"))
	}

	for i, record := range records {
		cursor := "  "
		if i == m.selectedModel {
			cursor = styles.FocusedStyle.Render("> ")
		}

		warning, critical := settings.GlobalWarningThreshold, settings.GlobalCriticalThreshold
		marker := styles.HelpStyle.Render("global")
		if override, ok := settings.PerModelOverrides[record.ModelName]; ok {
			if override.IsEnabled {
				warning, critical = override.WarningThreshold, override.CriticalThreshold
				marker = styles.InfoTextStyle.Render("override")
			} else {
				marker = styles.ErrorTextStyle.Render("disabled")
			}
		}

		lines = append(lines, fmt.Sprintf("%s%-24s %3.0f%% / %3.0f%%  %s",
			cursor, record.ModelName, warning, critical, marker))
	}

	lines = append(lines, styles.HelpStyle.Render("o override  e enable/disable"))

	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHistoryCard() string {
	entries := m.history.All()

	var lines []string
	lines = append(lines, styles.CardTitleStyle.Render(
		fmt.Sprintf("Fired alerts (%d)", len(entries))))

	if len(entries) == 0 {
		lines = append(lines, styles.HelpStyle.Render("No alerts fired yet"))
		return styles.CardStyle.Render(strings.Join(lines, "\n"))
	}

	visible := entries
	if len(visible) > maxVisibleHistory {
		visible = visible[:maxVisibleHistory]
	}

	for _, entry := range visible {
		kind := styles.WarningTextStyle.Render(entry.Kind.DisplayName())
		if entry.Kind == models.AlertCritical {
			kind = styles.ErrorTextStyle.Render(entry.Kind.DisplayName())
		}

		lines = append(lines, fmt.Sprintf("%s  %-24s %5.1f%%  %s",
			kind, entry.ModelName, entry.UsagePercentage,
			styles.HelpStyle.Render(humanize.Time(entry.FiredAt))))
	}

	if hidden := len(entries) - len(visible); hidden > 0 {
		lines = append(lines, styles.HelpStyle.Render(
			fmt.Sprintf("and %d older, x to clear", hidden)))
	}

	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}
