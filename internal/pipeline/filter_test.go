package pipeline

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
)

func TestApplyFilter(t *testing.T) {
	recs := sampleRecords()
	tests := []struct {
		name  string
		sel   model.Selector
		items []string
	}{
		{"no restriction", model.Selector{}, []string{"g1", "c1", "g2", "r1"}},
		{"ALL buyers", model.Selector{Buyer: model.AllBuyers}, []string{"g1", "c1", "g2", "r1"}},
		{"buyer", model.Selector{Buyer: "A"}, []string{"c1", "g2"}},
		{"week", model.Selector{Week: "W2"}, []string{"g1", "r1"}},
		{"buyer and week", model.Selector{Buyer: "B", Week: "W2"}, []string{"g1"}},
		{"unknown buyer", model.Selector{Buyer: "Z"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []string
			for _, r := range ApplyFilter(recs, tt.sel) {
				items = append(items, r.Item)
			}
			if !reflect.DeepEqual(items, tt.items) {
				t.Errorf("items = %v, want %v", items, tt.items)
			}
		})
	}
}

func TestApplyFilter_DoesNotMutate(t *testing.T) {
	recs := sampleRecords()
	before := append([]model.Record(nil), recs...)
	_ = ApplyFilter(recs, model.Selector{Buyer: "A"})
	if !reflect.DeepEqual(recs, before) {
		t.Error("input slice was modified")
	}
}

func TestUniqueValues(t *testing.T) {
	recs := sampleRecords()
	if got := UniqueValues(recs, model.FieldBuyer); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Errorf("UniqueValues(buyer) = %v, want [B A C]", got)
	}
	if got := SortedValues(recs, model.FieldWeek); !reflect.DeepEqual(got, []string{"W1", "W2"}) {
		t.Errorf("SortedValues(week) = %v, want [W1 W2]", got)
	}
	if got := UniqueValues(nil, model.FieldBuyer); len(got) != 0 {
		t.Errorf("UniqueValues(nil) = %v, want empty", got)
	}
}
