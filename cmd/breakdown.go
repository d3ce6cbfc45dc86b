package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Amount by category",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBreakdown(cmd, "CATEGORIES", pipeline.CategoryTotals)
	},
}

var buyersCmd = &cobra.Command{
	Use:   "buyers",
	Short: "Amount by buyer, largest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBreakdown(cmd, "BUYERS", pipeline.BuyerTotals)
	},
}

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Amount by week with a trend sparkline",
	RunE:  runWeekly,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(buyersCmd)
	rootCmd.AddCommand(weeklyCmd)
}

func runBreakdown(cmd *cobra.Command, title string, totalsFn func([]model.Record) []model.GroupTotal) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	totals := totalsFn(d.filtered)
	grand := 0.0
	maxAmount := 0.0
	for _, g := range totals {
		grand += g.TotalAmount
		if g.TotalAmount > maxAmount {
			maxAmount = g.TotalAmount
		}
	}

	rows := make([][]string, 0, len(totals)+2)
	for _, g := range totals {
		share := 0.0
		if grand > 0 {
			share = g.TotalAmount / grand
		}
		rows = append(rows, []string{
			g.Key,
			cli.FormatNumber(int64(g.Count)),
			cli.FormatMoney(g.TotalAmount),
			cli.FormatShare(share),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", cli.FormatNumber(int64(len(d.filtered))), cli.FormatMoney(grand), ""})

	fmt.Println()
	fmt.Println(cli.RenderTitle(title + "  " + d.scopeLabel()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Key", "Records", "Amount", "Share"},
		Rows:    rows,
	}))
	fmt.Println()
	for _, g := range totals {
		fmt.Println(cli.RenderHorizontalBar(g.Key, g.TotalAmount, maxAmount, 30))
	}
	fmt.Println()
	return nil
}

func runWeekly(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	t := d.cfg.Thresholds
	weeks := pipeline.WeeklyTotals(d.filtered)
	byWeek := pipeline.GroupBy(d.filtered, pipeline.ByField(model.FieldWeek))
	kpisByWeek := make(map[string]model.KPIs, len(byWeek))
	for _, g := range byWeek {
		kpisByWeek[g.Key] = pipeline.ComputeKPIs(g.Records, t)
	}

	values := make([]float64, 0, len(weeks))
	rows := make([][]string, 0, len(weeks))
	for _, w := range weeks {
		k := kpisByWeek[w.Key]
		values = append(values, w.TotalAmount)
		rows = append(rows, []string{
			w.Key,
			cli.FormatNumber(int64(w.Count)),
			cli.FormatMoney(w.TotalAmount),
			cli.FormatPercent(k.AchievementRate),
			cli.RenderTierChip(pipeline.ClassifyRate(k.AchievementRate, t)),
			cli.FormatPercent(k.OnTimeRate),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("WEEKLY  " + d.scopeLabel()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Week", "Records", "Amount", "Achievement", "Tier", "On-time"},
		Rows:     rows,
		TextCols: []int{4},
	}))
	fmt.Println()
	fmt.Printf("  Trend  %s\n\n", cli.RenderSparkline(values))
	return nil
}
