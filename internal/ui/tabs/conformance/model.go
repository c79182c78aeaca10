// Package conformance provides the conformance tab: percentile thresholds,
// label shares per location and per date, and the bottleneck groups.
package conformance

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
)

// Grouping selects which conformance matrix is shown.
type Grouping int

const (
	// GroupByLocation shows label shares per location.
	GroupByLocation Grouping = iota
	// GroupByDate shows label shares per calendar date.
	GroupByDate
)

// String returns the dimension name.
func (g Grouping) String() string {
	if g == GroupByDate {
		return "date"
	}
	return "location"
}

// keyMap defines the key bindings specific to the conformance tab.
type keyMap struct {
	ToggleGroup key.Binding
	ToggleChart key.Binding
	Up          key.Binding
	Down        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ToggleGroup: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "location/date"),
		),
		ToggleChart: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "bars/chart"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the conformance tab state.
type Model struct {
	state     *app.State
	spinner   components.LoadingSpinner
	keys      keyMap
	viewport  viewport.Model
	grouping  Grouping
	showChart bool
	width     int
	height    int
}

// New creates a new conformance model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner(components.LabelLoading),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the conformance tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the conformance tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToggleGroup):
			if m.grouping == GroupByLocation {
				m.grouping = GroupByDate
			} else {
				m.grouping = GroupByLocation
			}
		case key.Matches(msg, m.keys.ToggleChart):
			m.showChart = !m.showChart
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// SetSize sets the available size for the conformance tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// Grouping returns the matrix currently shown.
func (m *Model) Grouping() Grouping {
	return m.grouping
}

func (m *Model) matrix(r *analysis.Report) analysis.Matrix {
	if m.grouping == GroupByDate {
		return r.ByDate
	}
	return r.ByLocation
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.ToggleGroup, m.keys.ToggleChart}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleGroup, m.keys.ToggleChart},
		{m.keys.Up, m.keys.Down},
	}
}
