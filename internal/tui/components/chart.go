package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/procdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders vertical bars with a y-axis and x labels. It degrades to
// a sparkline when the area is too small.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Y-axis: pick a tick step that leaves at least two rows per interval.
	tickStep := chartTickStep(maxVal)
	maxIntervals := max(2, height/2)
	for int(math.Ceil(maxVal/tickStep)) > maxIntervals {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	numIntervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(2, height/numIntervals)
	chartH := rowsPerTick * numIntervals

	yLabelW := max(4, len(ChartLabel(ceiling))+1)
	tickLabels := make(map[int]string, numIntervals)
	for i := 1; i <= numIntervals; i++ {
		tickLabels[i*rowsPerTick] = ChartLabel(tickStep * float64(i))
	}

	chartW := max(5, width-yLabelW-1)
	n := len(values)
	gap := 1
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 1 {
		// Too many bars: keep the most recent ones that fit.
		keep := max(1, (chartW+1)/2)
		values = values[n-keep:]
		if len(labels) == n {
			labels = labels[n-keep:]
		}
		n = keep
		barW = 1
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := ceiling * float64(row) / float64(chartH)
		rowBottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 {
				b.WriteString(space.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= rowTop:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > rowBottom:
				idx := int((v - rowBottom) / (rowTop - rowBottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(barStyle.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(space.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW, gap, axisLen)))
	}
	return b.String()
}

// xAxisLabels places labels under their bars, skipping any that would
// overlap the previous one.
func xAxisLabels(labels []string, barW, gap, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * (barW + gap)
		r := []rune(lbl)
		if pos <= lastEnd || pos >= axisLen {
			continue
		}
		end := min(pos+len(r), axisLen)
		copy(buf[pos:end], r[:end-pos])
		lastEnd = end
	}
	return strings.TrimRight(string(buf), " ")
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // shown after the bar; defaults to the value
	Color lipgloss.Color
}

// HBarChart renders labelled horizontal bars scaled to the largest value.
func HBarChart(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	peak := 0.0
	for i := range bars {
		if bars[i].Text == "" {
			bars[i].Text = ChartLabel(bars[i].Value)
		}
		labelW = max(labelW, lipgloss.Width(bars[i].Label))
		textW = max(textW, lipgloss.Width(bars[i].Text))
		peak = math.Max(peak, bars[i].Value)
	}
	labelW = min(labelW, max(8, width/3))
	barMax := max(1, width-labelW-textW-2)
	if peak <= 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Width(labelW).MaxWidth(labelW)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(bars))
	for _, bar := range bars {
		color := bar.Color
		if color == "" {
			color = t.Accent
		}
		n := int(math.Round(math.Max(0, bar.Value) / peak * float64(barMax)))
		line := labelStyle.Render(bar.Label) + space.Render(" ") +
			lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", n)) +
			space.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(bar.Text)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// ChartLabel renders an axis value compactly: 1500 -> "1.5k", 2000000 -> "2M".
func ChartLabel(v float64) string {
	if math.Abs(v) < 1000 {
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
	value, prefix := humanize.ComputeSI(v)
	if value == math.Trunc(value) {
		return fmt.Sprintf("%.0f%s", value, siSuffix(prefix))
	}
	return fmt.Sprintf("%.1f%s", value, siSuffix(prefix))
}

func siSuffix(prefix string) string {
	switch prefix {
	case "G":
		return "B"
	default:
		return prefix
	}
}
