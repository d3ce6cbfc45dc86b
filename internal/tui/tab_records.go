package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// recordsState tracks the records tab: scroll position and search.
type recordsState struct {
	cursor      int
	offset      int
	searching   bool
	searchInput textinput.Model
	query       string
}

// apply narrows records to those whose item, category or buyer contains the
// query, ignoring case. An empty query returns records unchanged.
func (s recordsState) apply(records []model.Record) []model.Record {
	q := strings.ToLower(strings.TrimSpace(s.query))
	if q == "" {
		return records
	}
	var out []model.Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Item), q) ||
			strings.Contains(strings.ToLower(r.Category), q) ||
			strings.Contains(strings.ToLower(r.Buyer), q) {
			out = append(out, r)
		}
	}
	return out
}

// move shifts the cursor by delta within [0, n).
func (s *recordsState) move(delta, n int) {
	if n == 0 {
		s.cursor = 0
		return
	}
	s.cursor = max(0, min(n-1, s.cursor+delta))
}

func newSearchInput(query string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "item, category or buyer"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(query)
	return ti
}

func (a App) updateRecordsSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.recState.query = strings.TrimSpace(a.recState.searchInput.Value())
		a.recState.searching = false
		a.recState.cursor = 0
		a.recState.offset = 0
		a.recompute()
		return a, nil
	case "esc":
		a.recState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.recState.searchInput, cmd = a.recState.searchInput.Update(msg)
	return a, cmd
}

var recordColumns = []column{
	{title: "Date", width: 10},
	{title: "Buyer", width: 8},
	{title: "Category", width: 10},
	{title: "Item"},
	{title: "Qty", width: 7, right: true},
	{title: "Amount", width: 11, right: true},
	{title: "Margin", width: 6, right: true},
	{title: "Delivery", width: 8},
}

func recordCells(r model.Record) []string {
	return []string{
		r.Date, r.Buyer, r.Category, r.Item,
		cli.FormatQty(r.Qty), cli.FormatMoney(r.Amount),
		cli.FormatPercent(r.Margin), cli.FormatOnTime(r.OnTime),
	}
}

func (a App) renderRecordsTab(cw, h int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(cw)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	// Card chrome: borders, title, header, rule, footer.
	visible := max(1, h-7)
	if a.recState.searching {
		visible--
	}

	offset := a.recState.offset
	cursor := a.recState.cursor
	if cursor < offset {
		offset = cursor
	}
	if cursor >= offset+visible {
		offset = cursor - visible + 1
	}
	end := min(len(a.listed), offset+visible)

	widths := layoutColumns(recordColumns, innerW)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	lateStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)

	var b strings.Builder
	if a.recState.searching {
		b.WriteString(a.recState.searchInput.View())
		b.WriteString("\n")
	}
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	titles := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		titles[i] = c.title
	}
	b.WriteString(renderRow(titles, recordColumns, widths, headerStyle))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render(strings.Repeat("─", innerW)))

	for i := offset; i < end; i++ {
		r := a.listed[i]
		style := rowStyle
		switch {
		case i == cursor:
			style = selStyle
		case !r.OnTime:
			style = lateStyle
		}
		b.WriteString("\n")
		b.WriteString(renderRow(recordCells(r), recordColumns, widths, style))
	}
	if len(a.listed) == 0 {
		b.WriteString("\n")
		b.WriteString(muted.Render("No records match the current filter."))
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("%d-%d of %s", min(offset+1, end), end, cli.FormatNumber(int64(len(a.listed))))
	if len(a.listed) != len(a.filtered) {
		footer += fmt.Sprintf(" (search, %s in filter)", cli.FormatNumber(int64(len(a.filtered))))
	}
	b.WriteString(muted.Render(footer + "   [/] search  [j/k] scroll  [Esc] clear"))

	return components.ContentCard("Records", b.String(), cw)
}
