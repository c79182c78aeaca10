package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// RenderEmptyCard renders a card with a muted message and an optional hint,
// used when a tab has nothing to show.
func RenderEmptyCard(title, message, hint string, width int) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	emptyIcon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")

	rows := []string{
		fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title)),
		"",
		fmt.Sprintf("  %s %s", emptyIcon, styles.HelpStyle.Render(message)),
	}
	if hint != "" {
		rows = append(rows, "", styles.InfoTextStyle.Render("  ╰─▶ "+hint))
	}

	return styles.CardStyle.Width(max(width, 40)).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// RenderErrorCard renders a load error with the previous-data note.
func RenderErrorCard(err error, width int) string {
	rows := []string{
		styles.ErrorTextStyle.Bold(true).Render("✗ Could not load spreadsheet"),
		"",
		styles.ErrorTextStyle.Render(err.Error()),
	}
	return styles.CardStyle.
		BorderForeground(styles.Error).
		Width(max(width, 40)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
