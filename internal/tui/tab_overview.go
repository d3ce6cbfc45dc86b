package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	k := a.kpis
	var b strings.Builder

	// Row 1: KPI cards
	cards := []components.Metric{
		{Label: "Amount", Value: cli.FormatMoney(k.TotalAmount), Note: cli.FormatNumber(int64(k.Records)) + " records"},
		{Label: "Target", Value: cli.FormatMoney(k.TotalTarget), Note: fmt.Sprintf("gap %s", cli.FormatMoney(k.TotalAmount-k.TotalTarget))},
		{
			Label:  "Achievement",
			Value:  cli.FormatPercent(k.AchievementRate),
			Note:   cli.TierChip(a.rateTier),
			Signal: t.TierColor(a.rateTier),
		},
		{
			Label:  "On-time",
			Value:  cli.FormatPercent(k.OnTimeRate),
			Note:   cli.TierChip(a.onTimeTier),
			Signal: t.TierColor(a.onTimeTier),
		},
		{Label: "Avg Margin", Value: cli.FormatPercent(k.AverageMargin)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: weekly amount chart
	if len(a.weekly) > 0 {
		values := make([]float64, len(a.weekly))
		labels := make([]string, len(a.weekly))
		for i, w := range a.weekly {
			values[i] = w.TotalAmount
			labels[i] = shortWeek(w.Key)
		}
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Weekly Amount (%d weeks)", len(a.weekly)),
			components.BarChart(values, labels, t.Blue, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: categories and verdicts
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	bars := make([]components.Bar, 0, len(a.categories))
	for _, c := range a.categories {
		bars = append(bars, components.Bar{Label: c.Key, Value: c.TotalAmount, Text: cli.FormatMoney(c.TotalAmount)})
	}
	catCard := components.ContentCard("Amount by Category",
		components.HBarChart(bars, components.CardInnerWidth(halves[0])), halves[0])

	innerW := components.CardInnerWidth(halves[1])
	labelW := 12
	barW := max(10, innerW-labelW-9)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var status strings.Builder
	status.WriteString(components.RateBar("Achievement", k.AchievementRate, a.rateTier, labelW, barW))
	status.WriteString("\n")
	status.WriteString(components.RateBar("On-time", k.OnTimeRate, a.onTimeTier, labelW, barW))
	status.WriteString("\n\n")
	status.WriteString(muted.Render(pipeline.Verdict("Achievement", k.AchievementRate, a.rateTier)))
	status.WriteString("\n")
	status.WriteString(muted.Render(pipeline.Verdict("On-time rate", k.OnTimeRate, a.onTimeTier)))
	if ps := a.report.PlanSummary; len(ps.Rows) > 0 {
		status.WriteString("\n\n")
		status.WriteString(components.RateBar("Plan", ps.Rate, pipeline.ClassifyRate(ps.Rate, a.cfg.Thresholds), labelW, barW))
	}
	statusCard := components.ContentCard("Against Target", status.String(), halves[1])

	if a.isCompactLayout() {
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(statusCard)
	} else {
		b.WriteString(components.CardRow([]string{catCard, statusCard}))
	}
	return b.String()
}

// shortWeek trims a "2024-W10" style week to "W10" for axis labels.
func shortWeek(week string) string {
	if i := strings.LastIndex(week, "-"); i >= 0 && i < len(week)-1 {
		return week[i+1:]
	}
	return week
}
