package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// ShareBar renders a percentage as a labelled progress bar.
type ShareBar struct {
	progress   progress.Model
	labelWidth int
}

// NewShareBar creates a bar filled with a single color.
func NewShareBar(color lipgloss.Color) ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		labelWidth: 20,
	}
}

// NewGradientShareBar creates a bar with a gradient fill, used where the
// bars are not tied to a conformance label.
func NewGradientShareBar() ShareBar {
	return ShareBar{
		progress: progress.New(
			progress.WithScaledGradient("#5FAFFF", "#7D56F4"),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		labelWidth: 20,
	}
}

// SetLabelWidth sets the width reserved for labels.
func (b *ShareBar) SetLabelWidth(width int) {
	b.labelWidth = max(width, 0)
}

// View renders the bar with its label and the percentage with two decimals.
func (b ShareBar) View(percent float64, label string, width int) string {
	b.progress.Width = max(width-b.labelWidth-10, 10)

	bar := b.progress.ViewAs(clampPercent(percent) / 100)
	labelStr := styles.ProgressLabelStyle.Width(b.labelWidth).Render(label)
	percentStr := styles.ProgressPercentStyle.Width(9).Render(fmt.Sprintf("%.2f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, percentStr)
}

// ViewCompact renders the bar and percentage without a label.
func (b ShareBar) ViewCompact(percent float64, width int) string {
	b.progress.Width = max(width-8, 5)

	bar := b.progress.ViewAs(clampPercent(percent) / 100)
	percentStr := styles.GetShareStyle(percent).Render(fmt.Sprintf("%.0f%%", percent))

	return lipgloss.JoinHorizontal(lipgloss.Center, bar, " ", percentStr)
}

func clampPercent(p float64) float64 {
	return min(max(p, 0), 100)
}
