package source

import (
	"errors"

	"github.com/theirongolddev/procdash/internal/model"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first worksheet of a workbook.
func parseXLSX(path string) ([]model.RawRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("missing header row")
	}

	return rowsToRaw(rows[0], rows[1:]), nil
}
