package cmd

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var pivotCmd = &cobra.Command{
	Use:   "pivot",
	Short: "Buyer by category amount cross-tab",
	Long:  "Pivot of amount with buyers as rows and categories as columns, over the filtered records.",
	RunE:  runPivot,
}

func init() {
	rootCmd.AddCommand(pivotCmd)
}

func runPivot(cmd *cobra.Command, _ []string) error {
	d, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	if len(d.filtered) == 0 {
		printNoData(d)
		return nil
	}

	ct := pipeline.CrossTabulate(d.filtered)

	headers := append([]string{"Buyer"}, ct.ColKeys...)
	headers = append(headers, "TOTAL")

	rows := make([][]string, 0, len(ct.RowKeys)+2)
	for _, buyer := range ct.RowKeys {
		row := ct.Rows[buyer]
		cells := []string{buyer}
		for _, col := range ct.ColKeys {
			cells = append(cells, cli.FormatMoney(row.Cells[col]))
		}
		cells = append(cells, cli.FormatMoney(row.Total))
		rows = append(rows, cells)
	}
	rows = append(rows, []string{"---"})
	totals := []string{"TOTAL"}
	for _, col := range ct.ColKeys {
		totals = append(totals, cli.FormatMoney(ct.ColumnTotals[col]))
	}
	totals = append(totals, cli.FormatMoney(ct.GrandTotal))
	rows = append(rows, totals)

	fmt.Println()
	fmt.Println(cli.RenderTitle("PIVOT  " + d.scopeLabel()))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	fmt.Println()
	return nil
}
