package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func TestChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{250, "250"},
		{0.5, "0.50"},
		{1000, "1k"},
		{1500, "1.5k"},
		{2000000, "2M"},
		{3000000000, "3B"},
	}
	for _, tt := range tests {
		if got := ChartLabel(tt.in); got != tt.want {
			t.Errorf("ChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{10, 2},
		{100, 20},
		{1000, 200},
		{4000, 500},
		{6000, 1000},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	theme.SetActive("flexoki-dark")
	got := BarChart([]float64{1, 2, 3}, nil, theme.Active.Accent, 10, 2)
	if strings.Contains(got, "│") {
		t.Errorf("narrow chart should be a sparkline, got %q", got)
	}
	if BarChart(nil, nil, theme.Active.Accent, 80, 10) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestBarChartHasAxisAndLabels(t *testing.T) {
	theme.SetActive("flexoki-dark")
	got := BarChart([]float64{100, 300, 200}, []string{"W1", "W2", "W3"}, theme.Active.Accent, 40, 8)
	plain := stripANSI(got)
	if !strings.Contains(plain, "└") {
		t.Error("missing x axis")
	}
	for _, l := range []string{"W1", "W2", "W3"} {
		if !strings.Contains(plain, l) {
			t.Errorf("missing label %s", l)
		}
	}
}

func TestHBarChartScalesToPeak(t *testing.T) {
	theme.SetActive("flexoki-dark")
	got := HBarChart([]Bar{
		{Label: "A", Value: 100},
		{Label: "B", Value: 50},
		{Label: "C", Value: 0},
	}, 40)
	lines := strings.Split(stripANSI(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	a := strings.Count(lines[0], "█")
	b := strings.Count(lines[1], "█")
	c := strings.Count(lines[2], "█")
	if a == 0 || b*2 < a-1 || b*2 > a+1 || c != 0 {
		t.Errorf("bar lengths a=%d b=%d c=%d not proportional", a, b, c)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line %d width %d exceeds 40", i, w)
		}
	}
}

func TestRateBarShowsRealPercentage(t *testing.T) {
	theme.SetActive("flexoki-dark")
	got := stripANSI(RateBar("Rate", 1.25, model.TierOnTarget, 6, 10))
	if !strings.Contains(got, "125.0%") {
		t.Errorf("RateBar = %q, want 125.0%%", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
