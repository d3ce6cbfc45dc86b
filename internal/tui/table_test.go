package tui

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestCellPaddingUsesDisplayWidth(t *testing.T) {
	tests := []struct {
		in    string
		w     int
		right bool
	}{
		{"abc", 6, false},
		{"電子零件", 6, false},
		{"電子零件", 9, true},
		{"1,234", 8, true},
		{"longer than width", 5, false},
	}
	for _, tt := range tests {
		got := cellLeft(tt.in, tt.w)
		if tt.right {
			got = cellRight(tt.in, tt.w)
		}
		if w := runewidth.StringWidth(got); w != tt.w {
			t.Errorf("cell(%q, %d) = %q has width %d", tt.in, tt.w, got, w)
		}
	}
	if cellLeft("x", 0) != "" {
		t.Error("zero width should render nothing")
	}
}

func TestLayoutColumnsFillsTotal(t *testing.T) {
	cols := []column{{title: "A", width: 10}, {title: "B"}, {title: "C", width: 8, right: true}}
	widths := layoutColumns(cols, 60)
	sum := len(cols) - 1
	for _, w := range widths {
		sum += w
	}
	if sum != 60 {
		t.Errorf("columns fill %d, want 60 (%v)", sum, widths)
	}
}
