package cli

import (
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999.4, "999"},
		{1234567.5, "1,234,568"},
		{2.5, "3"},
		{-1500, "-1,500"},
		{-2.5, "-3"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatQty(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "3"},
		{1200, "1,200"},
		{2.5, "2.5"},
	}
	for _, tt := range tests {
		if got := FormatQty(tt.in); got != tt.want {
			t.Errorf("FormatQty(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0%"},
		{0.75, "75.0%"},
		{1, "100.0%"},
		{0.12345, "12.3%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTierLabel(t *testing.T) {
	tests := map[model.Tier]string{
		model.TierOnTarget: "達標",
		model.TierNear:     "接近",
		model.TierBelow:    "未達標",
	}
	for tier, want := range tests {
		if got := TierLabel(tier); got != want {
			t.Errorf("TierLabel(%s) = %q, want %q", tier, got, want)
		}
	}
	if got := TierChip(model.TierNear); got != "接近 NEAR" {
		t.Errorf("TierChip = %q", got)
	}
}

func TestFormatOnTime(t *testing.T) {
	if FormatOnTime(true) != "準時" || FormatOnTime(false) != "延遲" {
		t.Error("FormatOnTime markers wrong")
	}
	if FormatWeek("") != "ALL" || FormatWeek("W3") != "W3" {
		t.Error("FormatWeek wrong")
	}
}
