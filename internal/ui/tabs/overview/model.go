// Package overview provides the overview tab: the loaded file, headline
// metrics and the per-day occurrence series.
package overview

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
)

// DailyMode selects how the per-day series is drawn.
type DailyMode int

const (
	// DailyCharts draws the count and percent series as line charts.
	DailyCharts DailyMode = iota
	// DailyTable lists every date with its count and share.
	DailyTable
)

// String returns the label shown in the section header.
func (d DailyMode) String() string {
	if d == DailyTable {
		return "table"
	}
	return "charts"
}

// keyMap defines the key bindings specific to the overview tab.
type keyMap struct {
	ToggleDaily key.Binding
	Top         key.Binding
	Bottom      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleDaily: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "charts/table"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// Model represents the overview tab state.
type Model struct {
	state     *app.State
	spinner   components.LoadingSpinner
	keys      keyMap
	viewport  viewport.Model
	dailyMode DailyMode
	width     int
	height    int
}

// New creates a new overview model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner(components.LabelLoading),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case app.FiltersChangedMsg:
		m.viewport.GotoTop()

	case tea.KeyMsg:
		return m, m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleDaily):
		if m.dailyMode == DailyCharts {
			m.dailyMode = DailyTable
		} else {
			m.dailyMode = DailyCharts
		}
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// DailyMode returns the current per-day display mode.
func (m *Model) DailyMode() DailyMode {
	return m.dailyMode
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleDaily, m.keys.Top}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleDaily},
		{m.keys.Top, m.keys.Bottom},
	}
}
