package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "KPI summary for the selected buyer and week",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	t := d.cfg.Thresholds
	k := pipeline.ComputeKPIs(d.filtered, t)
	rateTier := pipeline.ClassifyRate(k.AchievementRate, t)
	onTimeTier := pipeline.ClassifyOnTime(k.OnTimeRate, t)

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROCUREMENT  " + d.scopeLabel()))
	fmt.Println()

	rows := [][]string{
		{"Records", cli.FormatNumber(int64(k.Records))},
		{"Buyers", cli.FormatNumber(int64(len(pipeline.BuyerTotals(d.filtered))))},
		{"Categories", cli.FormatNumber(int64(len(pipeline.CategoryTotals(d.filtered))))},
		{"---"},
		{"Total Amount", cli.FormatMoney(k.TotalAmount)},
		{"Total Target", cli.FormatMoney(k.TotalTarget)},
		{"Achievement", cli.FormatPercent(k.AchievementRate) + "  " + cli.RenderTierChip(rateTier)},
		{"---"},
		{"On-time Rate", cli.FormatPercent(k.OnTimeRate) + "  " + cli.RenderTierChip(onTimeTier)},
		{"Avg Margin", cli.FormatPercent(k.AverageMargin)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Println("  " + pipeline.Verdict("Achievement", k.AchievementRate, rateTier))
	fmt.Println("  " + pipeline.Verdict("On-time rate", k.OnTimeRate, onTimeTier))
	if d.result.FileErrors > 0 {
		fmt.Printf("\n  %d of %d files could not be read (see --verbose).\n", d.result.FileErrors, d.result.TotalFiles)
	}
	fmt.Println()
	return nil
}
