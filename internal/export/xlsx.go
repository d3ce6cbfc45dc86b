package export

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names written by WriteXLSX.
const (
	RecordsSheet = "週報"
	PivotSheet   = "Pivot"
)

// WriteXLSX writes the filtered records and their buyer/category pivot to a
// workbook at path.
func WriteXLSX(path string, records []model.Record, ct model.CrossTab) error {
	f, err := buildWorkbook(records, ct)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func buildWorkbook(records []model.Record, ct model.CrossTab) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(PivotSheet); err != nil {
		return nil, fmt.Errorf("adding sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeRecords(f, records, bold); err != nil {
		return nil, err
	}
	if err := writePivot(f, ct, bold); err != nil {
		return nil, err
	}
	return f, nil
}

func writeRecords(f *excelize.File, records []model.Record, bold int) error {
	header := make([]any, len(model.ColumnTitles))
	for i, t := range model.ColumnTitles {
		header[i] = t
	}
	if err := setRow(f, RecordsSheet, 1, header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(RecordsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range records {
		onTime := model.LateMarker
		if r.OnTime {
			onTime = model.OnTimeMarker
		}
		row := []any{r.Date, r.Week, r.Buyer, r.Category, r.Item, r.Qty, r.Amount, r.Target, r.Margin, onTime}
		if err := setRow(f, RecordsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(RecordsSheet, "A", "J", 12)
}

func writePivot(f *excelize.File, ct model.CrossTab, bold int) error {
	header := []any{"採購"}
	for _, c := range ct.ColKeys {
		header = append(header, c)
	}
	header = append(header, "TOTAL")
	if err := setRow(f, PivotSheet, 1, header); err != nil {
		return err
	}

	for i, b := range ct.RowKeys {
		row := []any{b}
		for _, c := range ct.ColKeys {
			row = append(row, ct.Rows[b].Cells[c])
		}
		row = append(row, ct.Rows[b].Total)
		if err := setRow(f, PivotSheet, i+2, row); err != nil {
			return err
		}
	}

	totals := []any{"TOTAL"}
	for _, c := range ct.ColKeys {
		totals = append(totals, ct.ColumnTotals[c])
	}
	totals = append(totals, ct.GrandTotal)
	totalRow := len(ct.RowKeys) + 2
	if err := setRow(f, PivotSheet, totalRow, totals); err != nil {
		return err
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(PivotSheet, "A1", lastHeader, bold); err != nil {
		return err
	}
	firstTotal, _ := excelize.CoordinatesToCellName(1, totalRow)
	lastTotal, _ := excelize.CoordinatesToCellName(len(totals), totalRow)
	return f.SetCellStyle(PivotSheet, firstTotal, lastTotal, bold)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}
