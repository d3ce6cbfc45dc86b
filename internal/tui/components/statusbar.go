package components

import (
	"strings"

	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports on its right side.
type StatusInfo struct {
	DataAge     string
	Notice      string // last refresh or save problem
	Refreshing  bool
	AutoRefresh bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	left := base.Render(" ") + keyStyle.Render("[?]") + base.Render("help  ") +
		keyStyle.Render("[ ]") + base.Render("buyer  ") +
		keyStyle.Render("{ }") + base.Render("week  ") +
		keyStyle.Render("[q]") + base.Render("uit")

	var right []string
	if info.Notice != "" {
		right = append(right, warnStyle.Render(info.Notice))
	}
	switch {
	case info.Refreshing:
		right = append(right, keyStyle.Render("refreshing"))
	case info.AutoRefresh:
		right = append(right, base.Render("auto"))
	}
	if info.DataAge != "" {
		right = append(right, base.Render("data "+info.DataAge))
	}
	r := strings.Join(right, base.Render("  ")) + base.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(r)
	if gap < 1 {
		gap = 1
	}
	return left + base.Render(strings.Repeat(" ", gap)) + r
}
