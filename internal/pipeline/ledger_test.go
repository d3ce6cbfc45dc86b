package pipeline

import (
	"reflect"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
)

func TestLedger_GetMissDoesNotCreate(t *testing.T) {
	l := NewLedger(nil)
	scope := model.Scope{Buyer: "A", Week: "W1"}

	rows := l.Get(scope)
	if rows == nil || len(rows) != 0 {
		t.Errorf("Get(miss) = %#v, want empty non-nil slice", rows)
	}
	if l.Has(scope) || l.Len() != 0 {
		t.Error("Get created an entry")
	}
}

func TestLedger_SetIsCopyOnWrite(t *testing.T) {
	scope := model.Scope{Buyer: "A", Week: "W1"}
	rows := []model.PlanRow{{Category: "CPU", Target: 100, Actual: 90}}

	before := NewLedger(nil)
	after := before.Set(scope, rows)

	if before.Has(scope) {
		t.Error("Set modified the receiver")
	}
	if !reflect.DeepEqual(after.Get(scope), rows) {
		t.Errorf("Get after Set = %+v", after.Get(scope))
	}

	// Mutating the caller's slice or a returned copy must not leak in.
	rows[0].Target = 1
	got := after.Get(scope)
	got[0].Actual = 0
	if after.Get(scope)[0].Target != 100 || after.Get(scope)[0].Actual != 90 {
		t.Errorf("ledger rows aliased: %+v", after.Get(scope))
	}
}

func TestLedger_SetReplacesAndDeletes(t *testing.T) {
	a := model.Scope{Buyer: "A"}
	b := model.Scope{Buyer: "B", Week: "W2"}

	l := NewLedger(map[model.Scope][]model.PlanRow{
		a: {{Category: "X", Target: 1}, {Category: "Y", Target: 2}},
		b: {{Category: "Z", Target: 3}},
	})
	l = l.Set(a, []model.PlanRow{{Category: "Q", Target: 9}})
	if got := l.Get(a); len(got) != 1 || got[0].Category != "Q" {
		t.Errorf("Set did not replace: %+v", got)
	}

	l = l.Set(b, nil)
	if !l.Has(b) || len(l.Get(b)) != 0 {
		t.Error("empty Set should keep an empty scope")
	}

	l = l.Delete(a)
	if l.Has(a) || l.Len() != 1 {
		t.Errorf("Delete left %d scopes", l.Len())
	}
}

func TestLedger_Scopes(t *testing.T) {
	l := NewLedger(nil).
		Set(model.Scope{Buyer: "B", Week: "W1"}, nil).
		Set(model.Scope{Buyer: "A", Week: "W2"}, nil).
		Set(model.Scope{Buyer: "A"}, nil)

	want := []model.Scope{{Buyer: "A"}, {Buyer: "A", Week: "W2"}, {Buyer: "B", Week: "W1"}}
	if got := l.Scopes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Scopes = %+v, want %+v", got, want)
	}
}

func TestPlanTotals(t *testing.T) {
	rows := []model.PlanRow{
		{Category: "CPU", Target: 100, Actual: 120},
		{Category: "CPU", Target: 100, Actual: 96},
		{Category: "GPU", Target: 0, Actual: 50},
	}
	s := PlanTotals(rows, model.DefaultThresholds())

	if s.Target != 200 || s.Actual != 266 {
		t.Errorf("totals = %v/%v, want 200/266", s.Target, s.Actual)
	}
	if s.Rate != 1.33 {
		t.Errorf("Rate = %v, want 1.33", s.Rate)
	}
	if len(s.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (duplicates kept)", len(s.Rows))
	}
	if s.Rows[0].Tier != model.TierOnTarget || s.Rows[1].Tier != model.TierNear || s.Rows[2].Rate != 0 {
		t.Errorf("row statuses = %+v", s.Rows)
	}
}

func TestPlanTotals_Empty(t *testing.T) {
	s := PlanTotals(nil, model.DefaultThresholds())
	if s.Target != 0 || s.Actual != 0 || s.Rate != 0 || len(s.Rows) != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}

func TestSeedRows(t *testing.T) {
	rows := SeedRows([]string{"CPU", "GPU"})
	want := []model.PlanRow{{Category: "CPU"}, {Category: "GPU"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("SeedRows = %+v", rows)
	}
}

func TestSeedRows_TrimsAndRoundTrips(t *testing.T) {
	rows := SeedRows([]string{" 電子 ", "", "  ", "機構\t"})
	want := []model.PlanRow{{Category: "電子"}, {Category: "機構"}}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("SeedRows = %+v, want %+v", rows, want)
	}

	back, err := ParsePlanText(FormatPlanText(rows))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, rows) {
		t.Errorf("round trip = %+v, want %+v", back, rows)
	}
}
