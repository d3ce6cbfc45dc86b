package model

import (
	"math"
	"testing"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"string", "42", 42},
		{"padded string", "  3.25 ", 3.25},
		{"empty string", "", 0},
		{"garbage", "abc", 0},
		{"thousands separator", "1,200", 0},
		{"NaN string", "NaN", 0},
		{"inf", math.Inf(1), 0},
		{"bool", true, 0},
		{"negative", "-4", -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceNumber(tt.in); got != tt.want {
				t.Errorf("CoerceNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoerceOnTime(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{"1", true},
		{1, true},
		{1.0, true},
		{true, true},
		{OnTimeMarker, true},
		{"0", false},
		{"true", false},
		{"yes", false},
		{" 1", false},
		{LateMarker, false},
		{2, false},
		{nil, false},
		{false, false},
	}
	for _, tt := range tests {
		if got := CoerceOnTime(tt.in); got != tt.want {
			t.Errorf("CoerceOnTime(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	raw := RawRecord{
		"date":     "2024-03-04",
		"week":     "W10",
		"buyer":    "A",
		"category": "CPU",
		"item":     "i7",
		"qty":      "3",
		"amount":   300.0,
		"target":   "not a number",
		"margin":   "0.2",
		"ontime":   "1",
		"extra":    "ignored",
	}
	got := Normalize(raw)
	want := Record{
		Date: "2024-03-04", Week: "W10", Buyer: "A", Category: "CPU", Item: "i7",
		Qty: 3, Amount: 300, Target: 0, Margin: 0.2, OnTime: true,
	}
	if got != want {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize(RawRecord{}); got != (Record{}) {
		t.Errorf("Normalize(empty) = %+v, want zero Record", got)
	}
	if got := Normalize(nil); got != (Record{}) {
		t.Errorf("Normalize(nil) = %+v, want zero Record", got)
	}
}

func TestRecordValue(t *testing.T) {
	r := Record{Buyer: "B", Amount: 1500, Margin: 0.125, OnTime: true}
	tests := []struct {
		f    Field
		want string
	}{
		{FieldBuyer, "B"},
		{FieldAmount, "1500"},
		{FieldMargin, "0.125"},
		{FieldOnTime, "true"},
		{FieldWeek, ""},
		{Field("bogus"), ""},
	}
	for _, tt := range tests {
		if got := r.Value(tt.f); got != tt.want {
			t.Errorf("Value(%s) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestSelectorAndScope(t *testing.T) {
	r := Record{Buyer: "A", Week: "W1"}

	if !(Selector{}).Matches(r) || !(Selector{Buyer: AllBuyers}).Matches(r) {
		t.Error("unrestricted selector should match")
	}
	if (Selector{Buyer: "B"}).Matches(r) {
		t.Error("buyer B should not match")
	}
	if (Selector{Week: "W2"}).Matches(r) {
		t.Error("week W2 should not match")
	}

	if got := ScopeFor(Selector{}); got != (Scope{Buyer: AllBuyers}) {
		t.Errorf("ScopeFor(empty) = %+v", got)
	}
	if got := (Scope{Buyer: "A", Week: "W1"}).Key(); got != "A|W1" {
		t.Errorf("Key = %q, want A|W1", got)
	}
	if got := (Scope{Buyer: "A"}).Key(); got != "A|ALL" {
		t.Errorf("Key = %q, want A|ALL", got)
	}
	// Separator inside a buyer name keeps scopes distinct.
	if (Scope{Buyer: "A|W1"}) == (Scope{Buyer: "A", Week: "W1"}) {
		t.Error("structured scopes must not collide")
	}
}
