// Package distribution provides the distribution tab: the seven-bin
// breakdown of the total duration and of every stage column.
package distribution

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/components"
)

type keyMap struct {
	NextColumn key.Binding
	PrevColumn key.Binding
	ShowAll    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextColumn: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next column"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "prev column"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all columns"),
		),
	}
}

// Model represents the distribution tab state.
type Model struct {
	state    *app.State
	spinner  components.LoadingSpinner
	bar      components.ShareBar
	keys     keyMap
	viewport viewport.Model
	// selected indexes Report.Distributions; showAll stacks every column.
	selected int
	showAll  bool
	width    int
	height   int
}

// New creates a new distribution model.
func New(state *app.State) *Model {
	bar := components.NewGradientShareBar()
	bar.SetLabelWidth(20)
	return &Model{
		state:    state,
		spinner:  components.NewSpinner(components.LabelLoading),
		bar:      bar,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the distribution tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the distribution tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		n := m.columnCount()
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			if n > 0 {
				m.selected = (m.selected + 1) % n
			}
		case key.Matches(msg, m.keys.PrevColumn):
			if n > 0 {
				m.selected = (m.selected - 1 + n) % n
			}
		case key.Matches(msg, m.keys.ShowAll):
			m.showAll = !m.showAll
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) columnCount() int {
	if r := m.state.GetReport(); r != nil {
		return len(r.Distributions)
	}
	return 0
}

// current returns the selected distribution, clamping the index after a
// reload that changed the set of stage columns.
func (m *Model) current(r *analysis.Report) (analysis.Distribution, bool) {
	if len(r.Distributions) == 0 {
		return analysis.Distribution{}, false
	}
	if m.selected >= len(r.Distributions) {
		m.selected = 0
	}
	return r.Distributions[m.selected], true
}

// SetSize sets the available size for the distribution tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// Selected returns the index of the column shown.
func (m *Model) Selected() int {
	return m.selected
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextColumn, m.keys.PrevColumn, m.keys.ShowAll}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextColumn, m.keys.PrevColumn},
		{m.keys.ShowAll},
	}
}
