package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/styles"
)

// Labels shown for each loading phase.
const (
	LabelLoading   = "Loading spreadsheet..."
	LabelReloading = "Reloading spreadsheet..."
	LabelAnalyzing = "Analyzing..."
)

// LoadingSpinner is a bubbles spinner with a caption.
type LoadingSpinner struct {
	spinner spinner.Model
	label   string
}

// NewSpinner creates a spinner with the given caption.
func NewSpinner(label string) LoadingSpinner {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(styles.Primary)),
	)
	return LoadingSpinner{spinner: s, label: label}
}

// Init starts the animation.
func (l LoadingSpinner) Init() tea.Cmd {
	return l.spinner.Tick
}

// Tick returns the command that advances the animation.
func (l LoadingSpinner) Tick() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the animation on its own tick messages.
func (l LoadingSpinner) Update(msg tea.Msg) (LoadingSpinner, tea.Cmd) {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return l, cmd
}

// View renders the current frame only.
func (l LoadingSpinner) View() string {
	return l.spinner.View()
}

// ViewWithLabel renders the frame followed by the caption.
func (l LoadingSpinner) ViewWithLabel() string {
	return l.spinner.View() + " " + styles.HelpStyle.Render(l.label)
}

// ViewAs renders the frame with a one-off caption.
func (l LoadingSpinner) ViewAs(label string) string {
	return l.spinner.View() + " " + styles.HelpStyle.Render(label)
}

// SetLabel updates the caption.
func (l *LoadingSpinner) SetLabel(label string) {
	l.label = label
}

// Label returns the caption.
func (l LoadingSpinner) Label() string {
	return l.label
}

// RenderSpinnerCentered renders the spinner and its label in the middle of
// a width by height area.
func RenderSpinnerCentered(s LoadingSpinner, width, height int) string {
	return styles.CenterBoth(s.ViewWithLabel(), width, height)
}
