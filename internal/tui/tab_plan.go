package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/store"
	"github.com/theirongolddev/procdash/internal/tui/components"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// planState tracks the plan editor. The form edits the plan as text, one
// "category:target:actual" row per line.
type planState struct {
	form  *huh.Form
	scope model.Scope // scope being edited, fixed when the form opens
	text  *string
}

// planDraft is the editor's starting text: the saved plan for the scope, or
// one zero row per category in view when none is saved yet.
func (a App) planDraft() string {
	if a.ledger.Has(a.scope()) {
		return pipeline.FormatPlanText(a.ledger.Get(a.scope()))
	}
	return pipeline.FormatPlanText(pipeline.SeedRows(pipeline.UniqueValues(a.filtered, model.FieldCategory)))
}

func (a *App) openPlanForm() tea.Cmd {
	text := a.planDraft()
	a.plan.text = &text
	a.plan.scope = a.scope()
	a.plan.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Plan for "+a.plan.scope.Key()).
				Description("One row per line: category:target:actual").
				Lines(12).
				Value(a.plan.text).
				Validate(func(s string) error {
					_, err := pipeline.ParsePlanText(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true).WithWidth(a.contentWidth())
	return a.plan.form.Init()
}

func (a App) updatePlanForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "esc" {
		a.plan = planState{}
		return a, nil
	}

	form, cmd := a.plan.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.plan.form = f
	}

	switch a.plan.form.State {
	case huh.StateCompleted:
		a.savePlan(a.plan.scope, *a.plan.text)
		a.plan = planState{}
		return a, nil
	case huh.StateAborted:
		a.plan = planState{}
		return a, nil
	}
	return a, cmd
}

// savePlan persists rows for scope and then swaps them into the ledger. If
// either the parse or the store fails the ledger keeps its previous value.
// An empty plan removes the scope.
func (a *App) savePlan(scope model.Scope, text string) {
	rows, err := pipeline.ParsePlanText(text)
	if err != nil {
		a.notice = "plan not saved: " + err.Error()
		return
	}
	if len(rows) == 0 {
		a.removePlan(scope)
		return
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		a.notice = "plan not saved: " + err.Error()
		return
	}
	defer func() { _ = cache.Close() }()

	if err := cache.SavePlan(scope, rows); err != nil {
		a.notice = "plan not saved: " + err.Error()
		return
	}
	a.ledger = a.ledger.Set(scope, rows)
	a.notice = ""
	a.recompute()
}

func (a *App) deletePlan() {
	a.removePlan(a.scope())
}

func (a *App) removePlan(scope model.Scope) {
	if !a.ledger.Has(scope) {
		return
	}
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		a.notice = "plan not deleted: " + err.Error()
		return
	}
	defer func() { _ = cache.Close() }()

	if err := cache.DeletePlan(scope); err != nil {
		a.notice = "plan not deleted: " + err.Error()
		return
	}
	a.ledger = a.ledger.Delete(scope)
	a.recompute()
}

func (a App) renderPlanTab(cw int) string {
	t := theme.Active
	if a.plan.form != nil {
		return components.ContentCard("Edit Plan", a.plan.form.View(), cw)
	}

	ps := a.report.PlanSummary
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var b strings.Builder

	title := "Plan: " + a.scope().Key()
	if len(ps.Rows) == 0 {
		body := muted.Render("No plan saved for this buyer and week.") + "\n" +
			muted.Render("Press e to start one from the categories in view.")
		b.WriteString(components.ContentCard(title, body, cw))
	} else {
		planCols := []column{
			{title: "Category"},
			{title: "Target", width: 12, right: true},
			{title: "Actual", width: 12, right: true},
			{title: "Rate", width: 7, right: true},
			{title: "Tier", width: 14},
		}
		rows := make([][]string, 0, len(ps.Rows)+2)
		for _, r := range ps.Rows {
			rows = append(rows, []string{
				r.Category, cli.FormatMoney(r.Target), cli.FormatMoney(r.Actual),
				cli.FormatPercent(r.Rate), cli.TierChip(r.Tier),
			})
		}
		totalTier := pipeline.ClassifyRate(ps.Rate, a.cfg.Thresholds)
		rows = append(rows, []string{"---"},
			[]string{"TOTAL", cli.FormatMoney(ps.Target), cli.FormatMoney(ps.Actual), cli.FormatPercent(ps.Rate), cli.TierChip(totalTier)})

		innerW := components.CardInnerWidth(cw)
		body := renderTable(planCols, rows, innerW) + "\n\n" +
			components.RateBar("Plan total", ps.Rate, totalTier, 12, max(10, innerW-21))
		b.WriteString(components.ContentCard(title, body, cw))
	}
	b.WriteString("\n")

	var saved strings.Builder
	scopes := a.ledger.Scopes()
	if len(scopes) == 0 {
		saved.WriteString(muted.Render("None"))
	}
	for i, s := range scopes {
		if i > 0 {
			saved.WriteString("\n")
		}
		marker := "  "
		if s == a.scope() {
			marker = "▸ "
		}
		saved.WriteString(muted.Render(fmt.Sprintf("%s%-24s %d rows", marker, s.Key(), len(a.ledger.Get(s)))))
	}
	saved.WriteString("\n\n")
	saved.WriteString(muted.Render("[e] edit  [D] delete  [ ] { } switch buyer and week"))
	b.WriteString(components.ContentCard("Saved Plans", saved.String(), cw))
	return b.String()
}
