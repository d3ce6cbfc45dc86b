package tui

import (
	"strings"

	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cellLeft truncates or pads s to exactly w display columns.
func cellLeft(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// cellRight is cellLeft with the text aligned right.
func cellRight(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return runewidth.FillLeft(runewidth.Truncate(s, w, "…"), w)
}

// column describes one column of a card table.
type column struct {
	title string
	width int  // 0 takes the remaining width, shared among flexible columns
	right bool // right-aligned (numbers)
}

// layoutColumns resolves flexible widths so columns plus single-space gaps
// fill total.
func layoutColumns(cols []column, total int) []int {
	widths := make([]int, len(cols))
	fixed := len(cols) - 1
	flex := 0
	for i, c := range cols {
		widths[i] = c.width
		fixed += c.width
		if c.width == 0 {
			flex++
		}
	}
	if flex == 0 {
		return widths
	}
	remaining := max(flex*6, total-fixed)
	for i, c := range cols {
		if c.width == 0 {
			widths[i] = remaining / flex
		}
	}
	return widths
}

// renderRow renders one row of cells with the given widths.
func renderRow(cells []string, cols []column, widths []int, style lipgloss.Style) string {
	space := lipgloss.NewStyle().Background(theme.Active.Surface)
	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteString(space.Render(" "))
		}
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if c.right {
			b.WriteString(style.Render(cellRight(cell, widths[i])))
		} else {
			b.WriteString(style.Render(cellLeft(cell, widths[i])))
		}
	}
	return b.String()
}

// renderTable renders a header, a rule and rows sized to innerW.
func renderTable(cols []column, rows [][]string, innerW int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	ruleStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	widths := layoutColumns(cols, innerW)
	titles := make([]string, len(cols))
	lineW := len(cols) - 1
	for i, c := range cols {
		titles[i] = c.title
		lineW += widths[i]
	}

	var b strings.Builder
	b.WriteString(renderRow(titles, cols, widths, headerStyle))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", lineW)))
	for _, r := range rows {
		b.WriteString("\n")
		if len(r) == 1 && r[0] == "---" {
			b.WriteString(ruleStyle.Render(strings.Repeat("─", lineW)))
			continue
		}
		b.WriteString(renderRow(r, cols, widths, rowStyle))
	}
	return b.String()
}
