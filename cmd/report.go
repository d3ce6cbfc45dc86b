package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Weekly report: KPIs, contribution, top and delayed items, plan",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

// buildReport assembles the report for the current selection, merging the
// saved plan for its scope.
func buildReport(d *dataset) model.Report {
	return pipeline.BuildReport(d.filtered, d.cfg.Thresholds, planRowsFor(d.sel), topN(d.cfg))
}

func runReport(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	r := buildReport(d)
	k := r.KPIs

	fmt.Println()
	fmt.Println(cli.RenderTitle("WEEKLY REPORT  " + d.scopeLabel()))
	fmt.Println()
	fmt.Println(cli.RenderKV("Total amount", cli.FormatMoney(k.TotalAmount)))
	fmt.Println(cli.RenderKV("Total target", cli.FormatMoney(k.TotalTarget)))
	fmt.Println(cli.RenderKV("Achievement", cli.FormatPercent(k.AchievementRate)+"  "+cli.RenderTierChip(r.RateTier)))
	fmt.Println(cli.RenderKV("On-time rate", cli.FormatPercent(k.OnTimeRate)+"  "+cli.RenderTierChip(r.OnTimeTier)))
	fmt.Println(cli.RenderKV("Avg margin", cli.FormatPercent(k.AverageMargin)))
	fmt.Println()
	for _, h := range r.Highlights {
		fmt.Println("  " + h.Verdict)
	}
	fmt.Println()

	shareRows := make([][]string, 0, len(r.CategoryContribution))
	for _, c := range r.CategoryContribution {
		shareRows = append(shareRows, []string{c.Category, cli.FormatMoney(c.Amount), cli.FormatShare(c.Share)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Category Contribution",
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    shareRows,
	}))
	fmt.Println()

	fmt.Print(renderItems(fmt.Sprintf("Top %d Items", r.TopN), r.TopItems))
	fmt.Println()
	if len(r.DelayedItems) == 0 {
		fmt.Println("  No delayed items.")
	} else {
		fmt.Print(renderItems("Delayed Items", r.DelayedItems))
	}
	fmt.Println()

	fmt.Print(renderPlan(r.PlanSummary))
	fmt.Println()
	return nil
}

func renderItems(title string, items []model.Record) string {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{r.Date, r.Buyer, r.Category, r.Item, cli.FormatMoney(r.Amount), cli.FormatOnTime(r.OnTime)})
	}
	return cli.RenderTable(cli.Table{
		Title:    title,
		Headers:  []string{"Date", "Buyer", "Category", "Item", "Amount", "Delivery"},
		Rows:     rows,
		TextCols: []int{1, 2, 3, 5},
	})
}

func renderPlan(ps model.PlanSummary) string {
	if len(ps.Rows) == 0 {
		return "  No plan saved for this scope. Use `procdash plan set`.\n"
	}
	rows := make([][]string, 0, len(ps.Rows)+2)
	for _, r := range ps.Rows {
		rows = append(rows, []string{
			r.Category,
			cli.FormatMoney(r.Target),
			cli.FormatMoney(r.Actual),
			cli.FormatPercent(r.Rate),
			cli.RenderTierChip(r.Tier),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", cli.FormatMoney(ps.Target), cli.FormatMoney(ps.Actual), cli.FormatPercent(ps.Rate), ""})
	return cli.RenderTable(cli.Table{
		Title:    "Personal Plan",
		Headers:  []string{"Category", "Target", "Actual", "Rate", "Tier"},
		Rows:     rows,
		TextCols: []int{4},
	})
}
