package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagPlanRows []string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the personal plan for the selected buyer and week",
	RunE:  runPlanShow,
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the plan for the selected scope",
	Example: `  procdash plan set -b alice -w 2024-W10 \
    --row "Electronics:1200:950" --row "Office:300:320"`,
	RunE: runPlanSet,
}

var planClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the plan for the selected scope",
	RunE:  runPlanClear,
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every scope that has a saved plan",
	RunE:  runPlanList,
}

func init() {
	planSetCmd.Flags().StringArrayVar(&flagPlanRows, "row", nil, "Plan row as CATEGORY:TARGET:ACTUAL (repeatable, kept in order)")
	_ = planSetCmd.MarkFlagRequired("row")
	planCmd.AddCommand(planSetCmd, planClearCmd, planListCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanShow(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	sel := currentSelector()
	scope := model.ScopeFor(sel)

	ledger, cache, err := openLedger()
	if err != nil {
		return err
	}
	_ = cache.Close()

	rows := ledger.Get(scope)
	seeded := false
	if !ledger.Has(scope) {
		// Offer one empty row per category in view as a starting point.
		result, err := loadData(cmd.Context(), cfg)
		if err == nil {
			filtered := pipeline.ApplyFilter(result.Records, sel)
			rows = pipeline.SeedRows(pipeline.UniqueValues(filtered, model.FieldCategory))
			seeded = true
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PLAN  " + scope.Key()))
	fmt.Println()
	fmt.Print(renderPlan(pipeline.PlanTotals(rows, cfg.Thresholds)))
	if seeded && len(rows) > 0 {
		fmt.Println("  (not saved yet; categories seeded from the current view)")
	}
	fmt.Println()
	return nil
}

func runPlanSet(_ *cobra.Command, _ []string) error {
	rows := make([]model.PlanRow, 0, len(flagPlanRows))
	for _, s := range flagPlanRows {
		row, err := pipeline.ParsePlanRow(s)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	scope := model.ScopeFor(currentSelector())
	ledger, cache, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if err := cache.SavePlan(scope, rows); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	ledger = ledger.Set(scope, rows)

	cfg := loadConfig()
	fmt.Printf("\n  Saved %d rows for %s (%d scopes with plans)\n\n", len(rows), scope.Key(), ledger.Len())
	fmt.Print(renderPlan(pipeline.PlanTotals(ledger.Get(scope), cfg.Thresholds)))
	fmt.Println()
	return nil
}

func runPlanClear(_ *cobra.Command, _ []string) error {
	scope := model.ScopeFor(currentSelector())
	ledger, cache, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()

	if !ledger.Has(scope) {
		fmt.Printf("  No plan saved for %s\n", scope.Key())
		return nil
	}
	if err := cache.DeletePlan(scope); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	ledger = ledger.Delete(scope)
	fmt.Printf("  Cleared plan for %s (%d scopes remain)\n", scope.Key(), ledger.Len())
	return nil
}

func runPlanList(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	ledger, cache, err := openLedger()
	if err != nil {
		return err
	}
	_ = cache.Close()

	scopes := ledger.Scopes()
	if len(scopes) == 0 {
		fmt.Println("\n  No plans saved.")
		return nil
	}

	rows := make([][]string, 0, len(scopes))
	for _, s := range scopes {
		sum := pipeline.PlanTotals(ledger.Get(s), cfg.Thresholds)
		rows = append(rows, []string{
			s.Buyer,
			cli.FormatWeek(s.Week),
			cli.FormatNumber(int64(len(sum.Rows))),
			cli.FormatMoney(sum.Target),
			cli.FormatMoney(sum.Actual),
			cli.FormatPercent(sum.Rate),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Saved Plans",
		Headers:  []string{"Buyer", "Week", "Rows", "Target", "Actual", "Rate"},
		Rows:     rows,
		TextCols: []int{1},
	}))
	fmt.Println()
	return nil
}
