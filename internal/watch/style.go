package watch

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	colorPrimary   = lipgloss.Color("#8B5CF6")
	colorSecondary = lipgloss.Color("#14B8A6")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorWarn      = lipgloss.Color("#F97316")
	colorError     = lipgloss.Color("#F43F5E")
	colorText      = lipgloss.Color("#F8FAFC")
	colorDim       = lipgloss.Color("#94A3B8")
	colorBorder    = lipgloss.Color("#334155")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorDim)
	bodyStyle     = lipgloss.NewStyle().Foreground(colorText)
	hintStyle     = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	streamStyle   = lipgloss.NewStyle().
			Foreground(colorDim).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)
)

// progressBar renders "label [#####.....]  40%" in width columns.
func progressBar(label string, percent float64, width int) string {
	out := bodyStyle.Render(label) + "  "
	barWidth := width - lipgloss.Width(out) - 6
	if barWidth < 4 {
		barWidth = 4
	}

	percent = min(max(percent, 0), 1)
	filled := int(float64(barWidth) * percent)

	out += lipgloss.NewStyle().Background(colorSecondary).Render(strings.Repeat(" ", filled))
	out += lipgloss.NewStyle().Background(colorBorder).Render(strings.Repeat(" ", barWidth-filled))
	out += subtitleStyle.Render(fmt.Sprintf("  %d%%", int(percent*100)))
	return out
}
