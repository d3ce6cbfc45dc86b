package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagRecordsLimit int
	flagValuesSorted bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List filtered records in input order",
	RunE:  runRecords,
}

var valuesCmd = &cobra.Command{
	Use:   "values FIELD",
	Short: "List distinct values of a field (buyer, week, category, ...)",
	Args:  cobra.ExactArgs(1),
	RunE:  runValues,
}

func init() {
	recordsCmd.Flags().IntVarP(&flagRecordsLimit, "limit", "l", 50, "Maximum rows to print (0 for all)")
	valuesCmd.Flags().BoolVar(&flagValuesSorted, "sorted", false, "Sort values instead of first-seen order")
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(valuesCmd)
}

func runRecords(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	shown := d.filtered
	if flagRecordsLimit > 0 && len(shown) > flagRecordsLimit {
		shown = shown[:flagRecordsLimit]
	}

	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			r.Date, r.Week, r.Buyer, r.Category, r.Item,
			cli.FormatQty(r.Qty),
			cli.FormatMoney(r.Amount),
			cli.FormatMoney(r.Target),
			cli.FormatPercent(r.Margin),
			cli.FormatOnTime(r.OnTime),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("RECORDS  " + d.scopeLabel()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  model.ColumnTitles,
		Rows:     rows,
		TextCols: []int{1, 2, 3, 4, 9},
	}))
	if len(shown) < len(d.filtered) {
		fmt.Printf("  Showing %d of %s records (use --limit 0 for all)\n",
			len(shown), cli.FormatNumber(int64(len(d.filtered))))
	}
	fmt.Println()
	return nil
}

func runValues(cmd *cobra.Command, args []string) error {
	field := model.Field(args[0])
	known := false
	for _, f := range model.Fields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown field %q", args[0])
	}

	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	// Distinct values come from the whole collection so filter pickers
	// always offer every option.
	values := pipeline.UniqueValues(d.all, field)
	if flagValuesSorted {
		values = pipeline.SortedValues(d.all, field)
	}
	for _, v := range values {
		fmt.Println(v)
	}
	return nil
}
