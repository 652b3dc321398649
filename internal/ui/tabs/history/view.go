package history

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/veymax/minimax-usage-tui/internal/ui/components"
	"github.com/veymax/minimax-usage-tui/internal/ui/styles"
)

// View implements app.Tab.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if !m.loaded {
		return styles.CenterBoth("Loading history...", m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderRangePicker())
	b.WriteString("\n")

	if len(m.stats.Snapshots) == 0 {
		b.WriteString(styles.HelpStyle.Render(
			"No snapshots recorded for this range yet. Usage is captured on every fetch."))
		return styles.DocStyle.Render(b.String())
	}

	b.WriteString(m.renderTotalsCard())
	b.WriteString("\n")
	b.WriteString(m.renderDailyChart())
	b.WriteString("\n\n")
	b.WriteString(m.renderRecentRows())

	return styles.DocStyle.Render(b.String())
}

func (m *Model) renderRangePicker() string {
	label := styles.TextSecondaryStyle.Render("Range: ")
	value := styles.FocusedStyle.Render(m.timeRange.String())
	hint := styles.HelpStyle.Render("  (t to cycle)")
	return label + value + hint
}

func (m *Model) renderTotalsCard() string {
	totals := m.stats.Totals

	content := strings.Join([]string{
		styles.CardTitleStyle.Render("Totals"),
		fmt.Sprintf("Prompts used       %s", humanize.Comma(int64(totals.TotalUsed))),
		fmt.Sprintf("Prompts remaining  %s", humanize.Comma(int64(totals.TotalRemaining))),
		fmt.Sprintf("Average usage      %s",
			styles.GetUsageStyle(totals.AverageUsagePercentage).
				Render(fmt.Sprintf("%.1f%%", totals.AverageUsagePercentage))),
		styles.HelpStyle.Render(fmt.Sprintf("%d snapshots", len(m.stats.Snapshots))),
	}, "\n")

	return styles.CardStyle.Render(content)
}

const maxRecentRows = 5

// renderRecentRows lists the newest snapshots with relative timestamps.
func (m *Model) renderRecentRows() string {
	snaps := m.stats.Snapshots

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("Recent snapshots"))
	b.WriteString("\n")

	shown := 0
	for i := len(snaps) - 1; i >= 0 && shown < maxRecentRows; i-- {
		snap := snaps[i]
		pct := snap.UsagePercentage()
		b.WriteString(fmt.Sprintf("%-24s %s  %s\n",
			snap.ModelName,
			styles.GetUsageStyle(pct).Render(fmt.Sprintf("%5.1f%%", pct)),
			styles.HelpStyle.Render(humanize.Time(snap.TakenAt))))
		shown++
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderDailyChart() string {
	daily := m.stats.Daily
	if len(daily) == 0 {
		return styles.HelpStyle.Render("No daily data yet")
	}

	chartWidth := m.width - 16
	if chartWidth < 30 {
		chartWidth = 30
	}

	var b strings.Builder
	b.WriteString(styles.CardTitleStyle.Render("Daily consumption"))
	b.WriteString("\n")

	if len(daily) > 1 {
		var series []float64
		for _, day := range daily {
			series = append(series, day.UsagePercentage())
		}
		chartHeight := m.height - 18
		if chartHeight < 5 {
			chartHeight = 5
		}
		b.WriteString(components.RenderLineChart(series, chartWidth, chartHeight, "usage %"))
		b.WriteString("\n\n")
	}

	var values []float64
	var labels []string
	for _, day := range daily {
		values = append(values, float64(day.UsedCount))
		labels = append(labels, day.Day.Format("Jan 2"))
	}
	b.WriteString(components.RenderBarChart(values, labels, chartWidth))

	return b.String()
}
