package tui

import (
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw int) string {
	var b strings.Builder
	b.WriteString(a.renderPivotCard(cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		b.WriteString(groupCard("By Buyer", a.buyerSums, cw))
		b.WriteString("\n")
		b.WriteString(a.weeklyCard(cw))
		return b.String()
	}
	b.WriteString(components.CardRow([]string{
		groupCard("By Buyer", a.buyerSums, halves[0]),
		a.weeklyCard(halves[1]),
	}))
	return b.String()
}

// renderPivotCard draws the buyer by category cross-tab. Columns that do not
// fit are dropped from the right; the TOTAL column always shows.
func (a App) renderPivotCard(cw int) string {
	t := theme.Active
	ct := a.crossTab
	innerW := components.CardInnerWidth(cw)

	const cellW = 11
	buyerW := 10
	fit := max(1, (innerW-buyerW-cellW-1)/(cellW+1))
	colKeys := ct.ColKeys
	hidden := 0
	if len(colKeys) > fit {
		hidden = len(colKeys) - fit
		colKeys = colKeys[:fit]
	}

	cols := []column{{title: "Buyer"}}
	for _, c := range colKeys {
		cols = append(cols, column{title: c, width: cellW, right: true})
	}
	cols = append(cols, column{title: "TOTAL", width: cellW, right: true})

	rows := make([][]string, 0, len(ct.RowKeys)+2)
	for _, buyer := range ct.RowKeys {
		row := ct.Rows[buyer]
		cells := []string{buyer}
		for _, c := range colKeys {
			cells = append(cells, cli.FormatMoney(row.Cells[c]))
		}
		cells = append(cells, cli.FormatMoney(row.Total))
		rows = append(rows, cells)
	}
	rows = append(rows, []string{"---"})
	totals := []string{"TOTAL"}
	for _, c := range colKeys {
		totals = append(totals, cli.FormatMoney(ct.ColumnTotals[c]))
	}
	totals = append(totals, cli.FormatMoney(ct.GrandTotal))
	rows = append(rows, totals)

	body := renderTable(cols, rows, innerW)
	if hidden > 0 {
		muted := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		body += "\n" + muted.Render(cli.FormatNumber(int64(hidden))+" more categories; widen the terminal or export to xlsx")
	}
	return components.ContentCard("Pivot: Buyer × Category", body, cw)
}

// weeklyCard is the per-week table with an amount sparkline under it.
func (a App) weeklyCard(outerW int) string {
	values := make([]float64, len(a.weekly))
	for i, w := range a.weekly {
		values[i] = w.TotalAmount
	}
	body := groupTable(a.weekly, components.CardInnerWidth(outerW))
	if len(values) > 1 {
		body += "\n\n" + components.Sparkline(values, theme.Active.Blue)
	}
	return components.ContentCard("By Week", body, outerW)
}

func groupCard(title string, groups []model.GroupTotal, outerW int) string {
	return components.ContentCard(title, groupTable(groups, components.CardInnerWidth(outerW)), outerW)
}

func groupTable(groups []model.GroupTotal, innerW int) string {
	grand := 0.0
	for _, g := range groups {
		grand += g.TotalAmount
	}
	cols := []column{
		{title: "Key"},
		{title: "Records", width: 7, right: true},
		{title: "Amount", width: 12, right: true},
		{title: "Share", width: 5, right: true},
	}
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		share := 0.0
		if grand > 0 {
			share = g.TotalAmount / grand
		}
		rows = append(rows, []string{g.Key, cli.FormatNumber(int64(g.Count)), cli.FormatMoney(g.TotalAmount), cli.FormatShare(share)})
	}
	return renderTable(cols, rows, innerW)
}
