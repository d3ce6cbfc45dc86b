// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatMoney rounds an amount half away from zero to a whole unit and adds
// thousands separators. e.g., 1234567.5 -> "1,234,568"
func FormatMoney(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(0)
	return humanize.Comma(rounded.IntPart())
}

// FormatQty formats a quantity, keeping up to two decimals when fractional.
func FormatQty(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsInteger() {
		return humanize.Comma(d.IntPart())
	}
	return humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatShare formats a contribution share as a whole percentage.
func FormatShare(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// TierLabel returns the localized badge text for a tier.
func TierLabel(t model.Tier) string {
	switch t {
	case model.TierOnTarget:
		return "達標"
	case model.TierNear:
		return "接近"
	default:
		return "未達標"
	}
}

// TierChip returns the badge text followed by the tier name.
func TierChip(t model.Tier) string {
	return TierLabel(t) + " " + t.String()
}

// FormatOnTime renders the delivery flag the way the spreadsheet export does.
func FormatOnTime(onTime bool) string {
	if onTime {
		return model.OnTimeMarker
	}
	return model.LateMarker
}

// FormatWeek renders an empty week selector as "ALL".
func FormatWeek(week string) string {
	if week == "" {
		return "ALL"
	}
	return week
}
