package distribution

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
)

func loadedState(t *testing.T) *app.State {
	t.Helper()
	header := []string{"FINALIZADO", "TEMPO_TOTAL", "LUGAR", "EM_LIMPEZA_53"}
	rows := [][]string{
		{"2024-12-01 08:00", "00:05:00", "Andar 1", "00:03:00"},
		{"2024-12-01 09:00", "00:20:00", "Andar 1", "00:12:00"},
		{"2024-12-02 10:00", "00:20:00", "Andar 2", ""},
		{"2024-12-03 11:00", "01:25:00", "Andar 2", "00:40:00"},
	}
	ds, err := analysis.NewDataset(analysis.NewTable(header, rows), analysis.DefaultProfile())
	if err != nil {
		t.Fatalf("NewDataset failed: %v", err)
	}

	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetDataset(ds, dataset.Source{Path: "limpezas.csv", Rows: len(rows)})
	id := state.BeginAnalysis()
	state.SetReport(id, analysis.Analyze(ds, analysis.Filters{}, analysis.Options{}))
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

func TestModel_ViewTotal(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(140, 80)

	view := m.View()
	for _, want := range []string{
		"TEMPO TOTAL",
		"[4 measured]",
		"EM ATÉ 10 MINUTOS",
		"25.00%",
		"MAIS DE 1 HORA",
		"≤20min",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View does not contain %q", want)
		}
	}
}

func TestModel_ColumnNavigation(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(140, 80)

	m.Update(runeKey("n"))
	if m.Selected() != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected())
	}
	if !strings.Contains(m.View(), "[3 measured]") {
		t.Error("stage column should count only its non-null values")
	}

	m.Update(runeKey("n"))
	if m.Selected() != 0 {
		t.Errorf("Selected = %d, want wrap to 0", m.Selected())
	}

	m.Update(runeKey("p"))
	if m.Selected() != 1 {
		t.Errorf("Selected = %d, want wrap back to 1", m.Selected())
	}
}

func TestModel_ShowAll(t *testing.T) {
	m := New(loadedState(t))
	m.SetSize(140, 200)

	m.Update(runeKey("a"))
	view := m.View()
	if !strings.Contains(view, "[4 measured]") || !strings.Contains(view, "[3 measured]") {
		t.Errorf("all columns should be stacked:\n%s", view)
	}
}

func TestModel_CurrentClampsAfterReload(t *testing.T) {
	m := New(loadedState(t))
	m.selected = 5

	d, ok := m.current(m.state.GetReport())
	if !ok || m.selected != 0 || d.Title != "TEMPO TOTAL" {
		t.Errorf("current = %q (ok=%v, selected=%d)", d.Title, ok, m.selected)
	}

	if _, ok := m.current(&analysis.Report{}); ok {
		t.Error("report without distributions should yield nothing")
	}
}

func TestModel_NavigationWithoutReport(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.Update(runeKey("n"))
	m.Update(runeKey("p"))
	if m.Selected() != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected())
	}
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) != 3 || len(m.FullHelp()) == 0 {
		t.Error("unexpected help bindings")
	}
}
