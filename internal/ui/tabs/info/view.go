package info

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/leitos-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderSheetCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, loaded columns and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 90)
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration")}

	if m.config == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		c := m.config
		rows = append(rows,
			m.renderConfigRow("Spreadsheet", orDash(c.SpreadsheetPath)),
			m.renderConfigRow("Sheet", orValue(c.SheetName, "first sheet")),
			m.renderConfigRow("Column Profile", orValue(c.ProfilePath, "built-in")),
			m.renderConfigRow("Threshold Scope", c.ThresholdScope.String()),
			m.renderConfigRow("All Locations", c.AllLocationsLabel),
			m.renderConfigRow("Notifications", onOff(c.DesktopNotifications)),
			m.renderConfigRow("Reload Debounce", c.ReloadDebounce.String()),
			m.renderConfigRow("Log File", orValue(c.LogPath, "disabled")),
			m.renderConfigRow("Log Level", c.LogLevel.String()),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderSheetCard() string {
	rows := []string{styles.CardTitleStyle.Render("Loaded Sheet")}

	ds := m.state.GetDataset()
	if ds == nil {
		rows = append(rows, styles.HelpStyle.Render("No spreadsheet loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	src := m.state.GetSource()
	rows = append(rows,
		m.renderConfigRow("File", src.Path),
		m.renderConfigRow("Format", src.Format.String()),
		m.renderConfigRow("Rows", fmt.Sprintf("%d", len(ds.Records))),
		m.renderConfigRow("Locations", fmt.Sprintf("%d", len(ds.Locations))),
	)
	if !src.ModTime.IsZero() {
		rows = append(rows, m.renderConfigRow("Modified", src.ModTime.Format("02/01/2006 15:04:05")))
	}

	rows = append(rows, "", styles.SubTitleStyle.Render("Columns"))
	rows = append(rows, renderColumns(ds)...)

	rows = append(rows, "", styles.SubTitleStyle.Render("Unparsable cells"))
	rows = append(rows, renderUnparsable(ds)...)

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderColumns marks the profile columns found in the sheet and lists the
// rest as extra.
func renderColumns(ds *analysis.Dataset) []string {
	present := make(map[string]bool, len(ds.Columns))
	for _, c := range ds.Columns {
		present[c] = true
	}

	var rows []string
	used := make(map[string]bool)
	mark := func(label, role string) {
		label = analysis.NormalizeHeader(label)
		used[label] = true
		icon := styles.SuccessTextStyle.Render("✓")
		if !present[label] {
			icon = styles.HelpStyle.Render("○")
		}
		rows = append(rows, fmt.Sprintf("%s %-24s %s", icon, label, styles.HelpStyle.Render(role)))
	}

	mark(ds.Profile.Finished, "finish time")
	mark(ds.Profile.Total, "total duration")
	mark(ds.Profile.Location, "location")
	for _, s := range ds.Profile.Stages {
		mark(s.Label, "stage")
	}

	var extra []string
	for _, c := range ds.Columns {
		if !used[c] {
			extra = append(extra, c)
		}
	}
	if len(extra) > 0 {
		rows = append(rows, styles.HelpStyle.Render("Other: "+strings.Join(extra, ", ")))
	}
	return rows
}

func renderUnparsable(ds *analysis.Dataset) []string {
	if ds.UnparsableTotal() == 0 {
		return []string{styles.SuccessTextStyle.Render("None")}
	}

	columns := make([]string, 0, len(ds.Unparsable))
	for c, n := range ds.Unparsable {
		if n > 0 {
			columns = append(columns, c)
		}
	}
	sort.Strings(columns)

	rows := make([]string, 0, len(columns))
	for _, c := range columns {
		rows = append(rows, fmt.Sprintf("%-26s %s", c,
			styles.WarningTextStyle.Render(fmt.Sprintf("%d", ds.Unparsable[c]))))
	}
	return rows
}

// renderConfigRow renders a configuration key-value row.
func (m *Model) renderConfigRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		m.renderConfigRow("Version", version.GetVersion()),
		m.renderConfigRow("Build Date", version.GetDate()),
		m.renderConfigRow("Git Commit", version.GetCommit()),
		m.renderConfigRow("Go Version", runtime.Version()),
		m.renderConfigRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func orDash(s string) string {
	return orValue(s, "-")
}

func orValue(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
