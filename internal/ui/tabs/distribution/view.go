package distribution

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// View renders the distribution tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	cardWidth := max(m.width-6, 40)
	sections := []string{m.renderTitle()}

	report := m.state.GetReport()
	switch {
	case !m.state.HasDataset():
		sections = append(sections, components.RenderEmptyCard(
			"Distribution", "No spreadsheet loaded", "Load a file to see the duration ranges", cardWidth))
	case report == nil:
		sections = append(sections, m.spinner.ViewAs(components.LabelAnalyzing))
	case m.showAll:
		for _, d := range report.Distributions {
			sections = append(sections, m.renderDistribution(d, cardWidth))
		}
	default:
		if d, ok := m.current(report); ok {
			sections = append(sections, m.renderTabs(report), m.renderDistribution(d, cardWidth))
		}
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Distribution")
	subtitle := styles.HelpStyle.Render("Share of occurrences in each duration range")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderTabs lists the columns with the selected one highlighted.
func (m *Model) renderTabs(r *analysis.Report) string {
	parts := make([]string, len(r.Distributions))
	for i, d := range r.Distributions {
		if i == m.selected {
			parts[i] = styles.ActiveTabStyle.Render(d.Title)
		} else {
			parts[i] = styles.InactiveTabStyle.Render(d.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n"
}

func (m *Model) renderDistribution(d analysis.Distribution, width int) string {
	header := styles.CardTitleStyle.Render(d.Title) +
		styles.HelpStyle.Render(fmt.Sprintf("  [%d measured]", d.Total))

	if d.Total == 0 {
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, styles.HelpStyle.Render("No values in this column for the selection")))
	}

	bars := make([]string, len(d.Bins))
	counts := make([]float64, len(d.Bins))
	labels := make([]string, len(d.Bins))
	for i, bc := range d.Bins {
		bars[i] = m.bar.View(analysis.RoundPercent(bc.Percent), bc.Bin.Caption, width-8)
		counts[i] = float64(bc.Count)
		labels[i] = bc.Bin.Short
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(bars, "\n"),
		"",
		styles.SubTitleStyle.Render("Occurrences"),
		components.RenderBarChart(counts, labels, width-8, "%.0f"),
	))
}
