package overview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/timeval"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

const dateLayout = "02/01/2006"

// View renders the overview tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	var sections []string
	sections = append(sections, m.renderTitle())

	cardWidth := m.cardWidth()
	if err := m.state.GetLoadError(); err != nil {
		sections = append(sections, components.RenderErrorCard(err, cardWidth))
	}

	if !m.state.HasDataset() {
		sections = append(sections, components.RenderEmptyCard(
			"Spreadsheet",
			"No spreadsheet loaded",
			"Run ldt <file.xlsx|file.csv> or set SPREADSHEET_PATH",
			cardWidth,
		))
		return m.render(sections)
	}

	sections = append(sections, m.renderSourceCard())

	report := m.state.GetReport()
	switch {
	case report == nil:
		sections = append(sections, m.spinner.ViewAs(components.LabelAnalyzing))
	case report.Metrics.Occurrences == 0:
		sections = append(sections, components.RenderEmptyCard(
			"Occurrences",
			"No records match the current filters",
			"Press 0 to reset the period and location",
			cardWidth,
		))
	default:
		sections = append(sections, m.renderMetrics(report.Metrics))
		sections = append(sections, m.renderDaily(report.Daily))
	}

	return m.render(sections)
}

func (m *Model) render(sections []string) string {
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, 40)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Bed Turnaround")
	subtitle := styles.HelpStyle.Render("Cleaning occurrences and turnaround time for the selected period")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSourceCard() string {
	src := m.state.GetSource()
	ds := m.state.GetDataset()

	labelStyle := lipgloss.NewStyle().Width(12).Foreground(styles.TextMuted)
	row := func(label, value string) string {
		return labelStyle.Render(label) + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(value)
	}

	rows := []string{
		styles.CardTitleStyle.Render("Spreadsheet"),
		row("File", filepath.Base(src.Path)),
	}
	if src.Sheet != "" {
		rows = append(rows, row("Sheet", src.Sheet))
	}
	rows = append(rows, row("Rows", fmt.Sprintf("%d (%s)", src.Rows, src.Format)))

	if ds.HasDates {
		rows = append(rows, row("Span", ds.MinDate.Format(dateLayout)+" → "+ds.MaxDate.Format(dateLayout)))
	}
	if !src.LoadedAt.IsZero() {
		rows = append(rows, row("Loaded", src.LoadedAt.Format("15:04:05")))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderMetrics(metrics analysis.Metrics) string {
	tile := func(value, label string) string {
		return styles.CardStyle.
			Width(20).
			Align(lipgloss.Center).
			Render(lipgloss.JoinVertical(lipgloss.Center,
				styles.MetricValueStyle.Render(value),
				styles.MetricLabelStyle.Render(label),
			))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		tile(fmt.Sprintf("%d", metrics.Occurrences), "Occurrences"),
		" ",
		tile(timeval.FormatHHMMSS(metrics.Total), "Total time"),
		" ",
		tile(timeval.FormatHHMMSS(metrics.Mean), "Mean time"),
		" ",
		tile(fmt.Sprintf("%d", metrics.Measured), "Measured"),
	)
}

func (m *Model) renderDaily(daily []analysis.DayCount) string {
	cardWidth := m.cardWidth()
	header := styles.CardTitleStyle.Render("Occurrences per day") +
		styles.HelpStyle.Render(fmt.Sprintf("  [%s · v to switch]", m.dailyMode))

	var body string
	if m.dailyMode == DailyTable {
		body = renderDailyTable(daily)
	} else {
		body = m.renderDailyCharts(daily, cardWidth-16)
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, body),
	)
}

func (m *Model) renderDailyCharts(daily []analysis.DayCount, width int) string {
	if len(daily) == 0 {
		return styles.HelpStyle.Render("No dated records in this selection")
	}

	counts := make([]float64, len(daily))
	percents := make([]float64, len(daily))
	for i, d := range daily {
		counts[i] = float64(d.Count)
		percents[i] = analysis.RoundPercent(d.Percent)
	}

	span := daily[0].Date.Format(dateLayout) + " → " + daily[len(daily)-1].Date.Format(dateLayout)
	return lipgloss.JoinVertical(lipgloss.Left,
		components.RenderLineChart(counts, width, 6, "Occurrences per day, "+span),
		"",
		components.RenderLineChart(percents, width, 6, "Share of occurrences per day (%)"),
		"",
		styles.HelpStyle.Render("Trend "+components.RenderSparkline(counts, min(len(counts), width))),
	)
}

func renderDailyTable(daily []analysis.DayCount) string {
	if len(daily) == 0 {
		return styles.HelpStyle.Render("No dated records in this selection")
	}

	var b strings.Builder
	b.WriteString(styles.TableHeaderStyle.Render(fmt.Sprintf("%-12s %8s %9s", "Date", "Count", "Share")))
	for _, d := range daily {
		b.WriteString("\n")
		b.WriteString(styles.TableCellStyle.Render(fmt.Sprintf("%-10s %8d %8.2f%%",
			d.Date.Format(dateLayout), d.Count, analysis.RoundPercent(d.Percent))))
	}
	return b.String()
}
