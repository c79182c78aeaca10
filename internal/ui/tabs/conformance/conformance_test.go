package conformance

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
)

func loadedState(t *testing.T, filters analysis.Filters) *app.State {
	t.Helper()
	header := []string{"FINALIZADO", "TEMPO_TOTAL", "LUGAR"}
	rows := [][]string{
		{"2024-12-01 08:00", "00:05:00", "Andar 1"},
		{"2024-12-01 09:00", "00:20:00", "Andar 1"},
		{"2024-12-02 10:00", "00:20:00", "Andar 2"},
		{"2024-12-03 11:00", "00:25:00", "Andar 2"},
	}
	ds, err := analysis.NewDataset(analysis.NewTable(header, rows), analysis.DefaultProfile())
	if err != nil {
		t.Fatalf("NewDataset failed: %v", err)
	}

	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetDataset(ds, dataset.Source{Path: "limpezas.csv", Rows: len(rows)})
	id := state.BeginAnalysis()
	state.SetReport(id, analysis.Analyze(ds, filters, analysis.Options{}))
	return state
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
	if m.Grouping() != GroupByLocation {
		t.Errorf("Grouping = %v, want location", m.Grouping())
	}
}

func TestModel_ViewNoDataset(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.SetSize(100, 30)

	if !strings.Contains(m.View(), "No spreadsheet loaded") {
		t.Error("View should prompt for a file")
	}
}

func TestModel_ViewEmptySelection(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{Location: "Andar 9"}))
	m.SetSize(120, 40)

	if !strings.Contains(m.View(), "No measured durations") {
		t.Error("View should report an empty selection")
	}
}

func TestModel_ViewReport(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{}))
	m.SetSize(140, 120)

	view := m.View()
	for _, want := range []string{
		"Thresholds",
		"global population",
		"00:23:30",
		"Bottlenecks",
		"Location Andar 2",
		"Muito Lento",
		"Date 03/12/2024",
		"Shares by location",
		"Andar 1",
		"n=2",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View does not contain %q", want)
		}
	}
}

func TestModel_ToggleGroupAndChart(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{}))
	m.SetSize(140, 120)

	m.Update(runeKey("v"))
	if m.Grouping() != GroupByDate {
		t.Fatalf("Grouping = %v, want date", m.Grouping())
	}
	view := m.View()
	if !strings.Contains(view, "Shares by date") || !strings.Contains(view, "02/12/2024") {
		t.Errorf("date grouping not rendered:\n%s", view)
	}

	m.Update(runeKey("c"))
	if !strings.Contains(m.View(), "Label share (%) by date") {
		t.Error("chart mode should render the series caption")
	}

	m.Update(runeKey("v"))
	if m.Grouping() != GroupByLocation {
		t.Error("second toggle should return to location")
	}
}

func TestGroupCaption(t *testing.T) {
	tests := []struct {
		dim, key, want string
	}{
		{"date", "2024-12-03", "03/12/2024"},
		{"date", "not-a-date", "not-a-date"},
		{"location", "2024-12-03", "2024-12-03"},
		{"location", "Andar 1", "Andar 1"},
	}
	for _, tt := range tests {
		if got := groupCaption(tt.dim, tt.key); got != tt.want {
			t.Errorf("groupCaption(%q, %q) = %q, want %q", tt.dim, tt.key, got, tt.want)
		}
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 || len(m.FullHelp()) == 0 {
		t.Error("help bindings should not be empty")
	}
	m.SetSize(80, 24)
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
}
