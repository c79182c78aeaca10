package conformance

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// View renders the conformance tab.
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
			"Conformance", "No spreadsheet loaded", "Load a file to classify turnaround times", cardWidth))
	case report == nil:
		sections = append(sections, m.spinner.ViewAs(components.LabelAnalyzing))
	case report.Empty || report.Thresholds == nil:
		sections = append(sections, components.RenderEmptyCard(
			"Conformance", "No measured durations in this selection", "Press 0 to reset the filters", cardWidth))
	default:
		sections = append(sections,
			m.renderThresholds(report, cardWidth),
			m.renderBottlenecks(report, cardWidth),
			m.renderMeans(report),
			m.renderMatrix(report, cardWidth),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Conformance")
	subtitle := styles.HelpStyle.Render("Turnaround times against the 10th and 90th percentiles")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderThresholds(r *analysis.Report, width int) string {
	th := r.Thresholds
	q10 := timeval.FormatHHMMSS(timeval.Of(th.Q10))
	q90 := timeval.FormatHHMMSS(timeval.Of(th.Q90))

	lines := []string{
		styles.CardTitleStyle.Render("Thresholds") +
			styles.HelpStyle.Render(fmt.Sprintf("  [%s population · s to switch]", th.Scope)),
		fmt.Sprintf("%s below %s", styles.FastStyle.Render(analysis.Fast.String()), q10),
		fmt.Sprintf("%s between %s and %s", styles.NormalStyle.Render(analysis.Normal.String()), q10, q90),
		fmt.Sprintf("%s above %s", styles.SlowStyle.Render(analysis.Slow.String()), q90),
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderBottlenecks(r *analysis.Report, width int) string {
	bottlenecks := r.Bottlenecks()
	if len(bottlenecks) == 0 {
		return styles.HelpStyle.Render("No bottleneck identified") + "\n"
	}

	lines := []string{styles.WarningTextStyle.Bold(true).Render("⚠ Bottlenecks")}
	for _, b := range bottlenecks {
		group := groupCaption(b.Dimension, b.Group)
		lines = append(lines, fmt.Sprintf("%s with the highest share of %s: %s",
			lipgloss.NewStyle().Bold(true).Render(strings.ToUpper(b.Dimension[:1])+b.Dimension[1:]+" "+group),
			styles.GetLabelStyle(int(b.Label)).Render(b.Label.String()),
			styles.GetShareStyle(b.Percent).Render(fmt.Sprintf("%.2f%%", analysis.RoundPercent(b.Percent))),
		))
	}

	return styles.BottleneckCardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderMeans(r *analysis.Report) string {
	tiles := make([]string, 0, len(analysis.Labels))
	for _, l := range analysis.Labels {
		tile := styles.CardStyle.
			Width(22).
			Align(lipgloss.Center).
			BorderForeground(styles.LabelColors[l]).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				styles.MetricValueStyle.Render(timeval.FormatHHMMSS(r.Mean(l))),
				styles.GetLabelStyle(int(l)).Render("Mean "+l.String()),
			))
		tiles = append(tiles, tile, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m *Model) renderMatrix(r *analysis.Report, width int) string {
	matrix := m.matrix(r)
	header := styles.CardTitleStyle.Render("Shares by "+m.grouping.String()) +
		styles.HelpStyle.Render("  [v location/date · c bars/chart]")

	legend := make([]components.LegendItem, len(analysis.Labels))
	for i, l := range analysis.Labels {
		legend[i] = components.LegendItem{Label: l.String(), Color: styles.LabelColors[l]}
	}

	var body string
	switch {
	case len(matrix.Groups) == 0:
		body = styles.HelpStyle.Render("No classified records")
	case m.showChart:
		body = renderSeries(matrix, m.grouping, width-16)
	default:
		body = renderStackedRows(matrix, m.grouping, width-8)
	}

	return styles.CardStyle.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, components.RenderLegend(legend), "", body),
	)
}

func renderStackedRows(matrix analysis.Matrix, g Grouping, width int) string {
	keyWidth := 0
	captions := make([]string, len(matrix.Groups))
	for i, grp := range matrix.Groups {
		captions[i] = groupCaption(g.String(), grp.Key)
		keyWidth = max(keyWidth, lipgloss.Width(captions[i]))
	}
	keyStyle := lipgloss.NewStyle().Width(keyWidth + 1)
	barWidth := max(width-keyWidth-30, 10)

	lines := make([]string, 0, len(matrix.Groups))
	for i, grp := range matrix.Groups {
		shares := make([]string, len(analysis.Labels))
		for j, l := range analysis.Labels {
			shares[j] = styles.GetLabelStyle(j).Render(fmt.Sprintf("%5.1f%%", grp.Share(l)))
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %s",
			keyStyle.Render(captions[i]),
			components.RenderStackedBar(grp.Percent[:], styles.LabelColors, barWidth),
			strings.Join(shares, " "),
			styles.HelpStyle.Render(fmt.Sprintf("n=%d", grp.Total)),
		))
	}
	return strings.Join(lines, "\n")
}

func renderSeries(matrix analysis.Matrix, g Grouping, width int) string {
	series := make([][]float64, len(analysis.Labels))
	for _, grp := range matrix.Groups {
		for j, l := range analysis.Labels {
			series[j] = append(series[j], analysis.RoundPercent(grp.Share(l)))
		}
	}

	first := groupCaption(g.String(), matrix.Groups[0].Key)
	last := groupCaption(g.String(), matrix.Groups[len(matrix.Groups)-1].Key)
	caption := fmt.Sprintf("Label share (%%) by %s, %s → %s", g, first, last)

	return components.RenderSeriesChart(series, components.LabelSeriesColors, width, 8, caption)
}

// groupCaption renders an ISO date key as dd/mm/yyyy; other keys are shown
// as they are.
func groupCaption(dimension, k string) string {
	if dimension != "date" {
		return k
	}
	d, err := time.Parse("2006-01-02", k)
	if err != nil {
		return k
	}
	return d.Format("02/01/2006")
}
