package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var itemColumns = []column{
	{title: "Date", width: 10},
	{title: "Buyer", width: 8},
	{title: "Category", width: 10},
	{title: "Item"},
	{title: "Amount", width: 11, right: true},
}

func itemTable(records []model.Record, innerW int) string {
	if len(records) == 0 {
		t := theme.Active
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("None")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Date, r.Buyer, r.Category, r.Item, cli.FormatMoney(r.Amount)})
	}
	return renderTable(itemColumns, rows, innerW)
}

func (a App) renderReportTab(cw int) string {
	t := theme.Active
	rep := a.report
	var b strings.Builder

	// Highlights
	var hl strings.Builder
	for i, h := range rep.Highlights {
		if i > 0 {
			hl.WriteString("\n")
		}
		chip := lipgloss.NewStyle().Foreground(t.TierColor(h.Tier)).Background(t.Surface).Bold(true).Render(cli.TierChip(h.Tier))
		hl.WriteString(chip)
		hl.WriteString(lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Render("  " + h.Verdict))
	}
	b.WriteString(components.ContentCard("Highlights", hl.String(), cw))
	b.WriteString("\n")

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	contribCols := []column{
		{title: "Category"},
		{title: "Amount", width: 12, right: true},
		{title: "Share", width: 5, right: true},
	}
	contribRows := make([][]string, 0, len(rep.CategoryContribution))
	for _, c := range rep.CategoryContribution {
		contribRows = append(contribRows, []string{c.Category, cli.FormatMoney(c.Amount), cli.FormatShare(c.Share)})
	}
	contrib := components.ContentCard("Category Contribution",
		renderTable(contribCols, contribRows, components.CardInnerWidth(halves[0])), halves[0])
	plan := components.ContentCard("Plan", a.planBars(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(contrib)
		b.WriteString("\n")
		b.WriteString(plan)
	} else {
		b.WriteString(components.CardRow([]string{contrib, plan}))
	}
	b.WriteString("\n")

	b.WriteString(components.ContentCard(fmt.Sprintf("Top %d Items", rep.TopN),
		itemTable(rep.TopItems, components.CardInnerWidth(cw)), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("Delayed Items (%d)", len(rep.DelayedItems)),
		itemTable(rep.DelayedItems, components.CardInnerWidth(cw)), cw))
	return b.String()
}

// planBars renders one rate bar per plan row plus the plan total.
func (a App) planBars(innerW int) string {
	t := theme.Active
	ps := a.report.PlanSummary
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(ps.Rows) == 0 {
		return muted.Render("No plan for " + a.scope().Key() + ". Press l, then e to write one.")
	}

	labelW := 12
	barW := max(10, innerW-labelW-9)
	var b strings.Builder
	for _, r := range ps.Rows {
		b.WriteString(components.RateBar(r.Category, r.Rate, r.Tier, labelW, barW))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("Total %s / %s", cli.FormatMoney(ps.Actual), cli.FormatMoney(ps.Target))))
	return b.String()
}
