package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/procdash/internal/model"
)

// ParsePlanRow parses "CATEGORY:TARGET:ACTUAL". The category may itself
// contain colons; the last two fields are the numbers. Numbers may carry
// thousands separators, and blanks or garbage coerce to 0 like input cells.
func ParsePlanRow(s string) (model.PlanRow, error) {
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return model.PlanRow{}, fmt.Errorf("plan row %q: want CATEGORY:TARGET:ACTUAL", s)
	}
	head, actual := s[:i], s[i+1:]
	j := strings.LastIndex(head, ":")
	if j < 0 {
		return model.PlanRow{}, fmt.Errorf("plan row %q: want CATEGORY:TARGET:ACTUAL", s)
	}
	category := strings.TrimSpace(head[:j])
	if category == "" {
		return model.PlanRow{}, fmt.Errorf("plan row %q: category is empty", s)
	}
	return model.PlanRow{
		Category: category,
		Target:   planNumber(head[j+1:]),
		Actual:   planNumber(actual),
	}, nil
}

func planNumber(s string) float64 {
	return model.CoerceNumber(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
}

// ParsePlanText parses one plan row per line, skipping blank lines.
func ParsePlanText(text string) ([]model.PlanRow, error) {
	var rows []model.PlanRow
	for n, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := ParsePlanRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FormatPlanText renders rows in the format ParsePlanText reads. Categories
// round-trip as long as they carry no surrounding whitespace, which holds for
// rows built by ParsePlanRow or SeedRows.
func FormatPlanText(rows []model.PlanRow) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Category)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(r.Target, 'f', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(r.Actual, 'f', -1, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
