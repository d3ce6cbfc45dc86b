// Package pipeline filters, aggregates and reports on procurement records.
// Everything in it is a pure function over in-memory values, except the
// loaders which read input files.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/procdash/internal/model"
)

// ComputeKPIs computes the scalar summary of records.
// The thresholds do not change the scalars; they are accepted so callers can
// classify with the same configuration they aggregated under.
func ComputeKPIs(records []model.Record, _ model.Thresholds) model.KPIs {
	var k model.KPIs
	k.Records = len(records)

	onTime := 0
	marginSum := 0.0
	for _, r := range records {
		k.TotalAmount += r.Amount
		k.TotalTarget += r.Target
		marginSum += r.Margin
		if r.OnTime {
			onTime++
		}
	}

	if k.TotalTarget > 0 {
		k.AchievementRate = k.TotalAmount / k.TotalTarget
	}
	if len(records) > 0 {
		n := float64(len(records))
		k.OnTimeRate = float64(onTime) / n
		// Unweighted mean across lines, not weighted by amount.
		k.AverageMargin = marginSum / n
	}
	return k
}

// Group is one key of a GroupBy result with its member records.
type Group struct {
	Key     string
	Records []model.Record
}

// Amount sums the group's record amounts.
func (g Group) Amount() float64 {
	total := 0.0
	for _, r := range g.Records {
		total += r.Amount
	}
	return total
}

// GroupBy partitions records by keyFn. Groups are returned in the order their
// keys were first seen; records keep their input order within a group.
func GroupBy(records []model.Record, keyFn func(model.Record) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		k := keyFn(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// ByField returns a GroupBy key function for a record field.
func ByField(f model.Field) func(model.Record) string {
	return func(r model.Record) string { return r.Value(f) }
}

func reduceGroups(groups []Group) []model.GroupTotal {
	totals := make([]model.GroupTotal, 0, len(groups))
	for _, g := range groups {
		totals = append(totals, model.GroupTotal{
			Key:         g.Key,
			TotalAmount: g.Amount(),
			Count:       len(g.Records),
		})
	}
	return totals
}

// CategoryTotals sums amount per category in first-seen category order.
func CategoryTotals(records []model.Record) []model.GroupTotal {
	return reduceGroups(GroupBy(records, ByField(model.FieldCategory)))
}

// WeeklyTotals sums amount per week, ordered by week identifier.
func WeeklyTotals(records []model.Record) []model.GroupTotal {
	totals := reduceGroups(GroupBy(records, ByField(model.FieldWeek)))
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Key < totals[j].Key
	})
	return totals
}

// BuyerTotals sums amount per buyer, largest first.
func BuyerTotals(records []model.Record) []model.GroupTotal {
	totals := reduceGroups(GroupBy(records, ByField(model.FieldBuyer)))
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalAmount > totals[j].TotalAmount
	})
	return totals
}

// CrossTabulate aggregates amount by buyer (rows) and category (columns).
// Only buyers and categories present in records appear. Row totals, column
// totals and the grand total are all derived from the same cell values.
func CrossTabulate(records []model.Record) model.CrossTab {
	ct := model.CrossTab{
		RowKeys:      SortedValues(records, model.FieldBuyer),
		ColKeys:      SortedValues(records, model.FieldCategory),
		Rows:         make(map[string]model.CrossTabRow),
		ColumnTotals: make(map[string]float64),
	}
	if ct.RowKeys == nil {
		ct.RowKeys = []string{}
	}
	if ct.ColKeys == nil {
		ct.ColKeys = []string{}
	}

	cells := make(map[string]map[string]float64, len(ct.RowKeys))
	for _, b := range ct.RowKeys {
		row := make(map[string]float64, len(ct.ColKeys))
		for _, c := range ct.ColKeys {
			row[c] = 0
		}
		cells[b] = row
	}
	for _, r := range records {
		cells[r.Buyer][r.Category] += r.Amount
	}

	for _, b := range ct.RowKeys {
		row := model.CrossTabRow{Cells: cells[b]}
		for _, c := range ct.ColKeys {
			row.Total += row.Cells[c]
		}
		ct.Rows[b] = row
	}
	for _, c := range ct.ColKeys {
		sum := 0.0
		for _, b := range ct.RowKeys {
			sum += cells[b][c]
		}
		ct.ColumnTotals[c] = sum
	}
	for _, c := range ct.ColKeys {
		ct.GrandTotal += ct.ColumnTotals[c]
	}

	return ct
}
