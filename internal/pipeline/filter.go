package pipeline

import (
	"sort"

	"github.com/theirongolddev/procdash/internal/model"
)

// ApplyFilter returns the records matching sel, in input order.
// A selector with no restrictions returns records unchanged.
func ApplyFilter(records []model.Record, sel model.Selector) []model.Record {
	if sel.AnyBuyer() && sel.AnyWeek() {
		return records
	}

	result := make([]model.Record, 0, len(records))
	for _, r := range records {
		if sel.Matches(r) {
			result = append(result, r)
		}
	}
	return result
}

// UniqueValues returns the distinct values of field in first-seen order.
func UniqueValues(records []model.Record, field model.Field) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, r := range records {
		v := r.Value(field)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}

// SortedValues returns the distinct values of field in ascending order.
func SortedValues(records []model.Record, field model.Field) []string {
	values := UniqueValues(records, field)
	sort.Strings(values)
	return values
}
