// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// LabelSeriesColors are the asciigraph colors of the fast, normal and slow
// series.
var LabelSeriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Red,
}

func chartBounds(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = chartBounds(width, height)

	// asciigraph needs two points to draw a line.
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderSeriesChart plots several series of the same length on one chart.
// Shorter series are padded with zeros.
func RenderSeriesChart(series [][]float64, colors []asciigraph.AnsiColor, width, height int, caption string) string {
	maxLen := 0
	for _, s := range series {
		maxLen = max(maxLen, len(s))
	}
	if maxLen == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = chartBounds(width, height)
	maxLen = max(maxLen, 2)

	data := make([][]float64, len(series))
	for i, s := range series {
		data[i] = make([]float64, maxLen)
		copy(data[i], s)
		if len(s) == 1 {
			data[i][1] = s[0]
		}
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(colors) > 0 {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}

	return asciigraph.PlotMany(data, opts...)
}

// RenderBarChart creates a simple horizontal bar chart. format renders each
// value after its bar.
func RenderBarChart(values []float64, labels []string, width int, format string) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		padded := strings.Repeat(" ", maxLabelLen-lipgloss.Width(label)) + label

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := strings.Repeat("█", barLen)

		lines = append(lines, padded+" │"+bar+" "+fmt.Sprintf(format, v))
	}

	return strings.Join(lines, "\n")
}

// RenderStackedBar draws a 100% stacked horizontal bar. shares are
// percentages and colors is aligned with them.
func RenderStackedBar(shares []float64, colors []lipgloss.Color, width int) string {
	width = max(width, 10)

	var b strings.Builder
	used := 0
	for i, share := range shares {
		cells := int(share/100*float64(width) + 0.5)
		if i == len(shares)-1 {
			cells = width - used
		}
		cells = min(max(cells, 0), width-used)
		used += cells

		style := lipgloss.NewStyle()
		if i < len(colors) {
			style = style.Foreground(colors[i])
		}
		b.WriteString(style.Render(strings.Repeat("█", cells)))
	}
	return b.String()
}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	step := max(float64(len(values))/float64(width), 1)

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}
