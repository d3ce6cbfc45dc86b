package source

import (
	"strings"

	"github.com/theirongolddev/procdash/internal/model"
)

// Format identifies an input file encoding.
type Format string

// Supported input formats.
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// DiscoveredFile represents an input file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // base name, used in progress and error output
	Format Format
}

// headerAliases maps normalized header text to canonical record fields.
// The localized names match model.ColumnTitles.
var headerAliases = map[string]model.Field{
	"date":     model.FieldDate,
	"week":     model.FieldWeek,
	"buyer":    model.FieldBuyer,
	"category": model.FieldCategory,
	"item":     model.FieldItem,
	"qty":      model.FieldQty,
	"quantity": model.FieldQty,
	"amount":   model.FieldAmount,
	"target":   model.FieldTarget,
	"margin":   model.FieldMargin,
	"ontime":   model.FieldOnTime,
	"on_time":  model.FieldOnTime,

	"日期":  model.FieldDate,
	"週別":  model.FieldWeek,
	"採購":  model.FieldBuyer,
	"類別":  model.FieldCategory,
	"品名":  model.FieldItem,
	"數量":  model.FieldQty,
	"金額":  model.FieldAmount,
	"目標":  model.FieldTarget,
	"毛利率": model.FieldMargin,
	"交期":  model.FieldOnTime,
}

// mapHeader resolves a header cell to a field. ok is false for unknown columns.
func mapHeader(h string) (model.Field, bool) {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	f, ok := headerAliases[h]
	return f, ok
}

// rowsToRaw converts a header row plus data rows into raw records.
// Blank rows are skipped and short rows are padded with empty cells.
func rowsToRaw(header []string, rows [][]string) []model.RawRecord {
	fields := make([]model.Field, len(header))
	known := make([]bool, len(header))
	for i, h := range header {
		fields[i], known[i] = mapHeader(h)
	}

	out := make([]model.RawRecord, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		raw := make(model.RawRecord, len(header))
		for i := range header {
			if !known[i] {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			raw[string(fields[i])] = cell
		}
		out = append(out, raw)
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
