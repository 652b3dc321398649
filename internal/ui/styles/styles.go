// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/veymax/minimax-usage-tui/internal/models"
)

// Color definitions for the MiniMax usage theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("203") // Coral
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark  = lipgloss.Color("235")
	BgLight = lipgloss.Color("237")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// ActiveTabStyle highlights the selected navbar tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Foreground(TextPrimary).
	Background(Primary).
	Bold(true)

// InactiveTabStyle renders unselected navbar tabs.
var InactiveTabStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(BgLight)

// TextSecondaryStyle renders secondary text.
var TextSecondaryStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// KeyStyle renders key names in help listings.
var KeyStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// UsageNormalStyle for usage below the warning level.
var UsageNormalStyle = lipgloss.NewStyle().
	Foreground(Success)

// UsageWarningStyle for usage at or above the warning level.
var UsageWarningStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true)

// UsageCriticalStyle for usage at or above the critical level.
var UsageCriticalStyle = lipgloss.NewStyle().
	Foreground(Error).
	Bold(true)

// SnoozeBadgeStyle marks the active snooze window.
var SnoozeBadgeStyle = lipgloss.NewStyle().
	Foreground(Warning).
	Bold(true).
	Italic(true)

// GetUsageStyle returns the style for a usage percentage, colored by the
// display status classification.
func GetUsageStyle(percent float64) lipgloss.Style {
	switch models.StatusForPercentage(percent) {
	case models.StatusCritical:
		return UsageCriticalStyle
	case models.StatusWarning:
		return UsageWarningStyle
	default:
		return UsageNormalStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
