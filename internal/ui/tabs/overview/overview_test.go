package overview

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
	"github.com/j-veylop/leitos-dashboard-tui/internal/sheet"
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
	state.SetDataset(ds, dataset.Source{
		Path:     "/data/limpezas.xlsx",
		Sheet:    "Plan1",
		Format:   sheet.FormatXLSX,
		Rows:     len(rows),
		LoadedAt: time.Date(2024, 12, 4, 9, 30, 0, 0, time.UTC),
	})
	id := state.BeginAnalysis()
	state.SetReport(id, analysis.Analyze(ds, filters, analysis.Options{}))
	return state
}

func TestNew(t *testing.T) {
	m := New(app.NewState())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Init() == nil {
		t.Error("Init should start the spinner")
	}
	if m.DailyMode() != DailyCharts {
		t.Errorf("DailyMode = %v, want charts", m.DailyMode())
	}
}

func TestModel_ViewLoading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 20)
	if !strings.Contains(m.View(), "Loading spreadsheet") {
		t.Error("initial load should show the spinner label")
	}
}

func TestModel_ViewNoDataset(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	m := New(state)
	m.SetSize(100, 30)

	view := m.View()
	if !strings.Contains(view, "No spreadsheet loaded") {
		t.Errorf("View should prompt for a file:\n%s", view)
	}
}

func TestModel_ViewLoadError(t *testing.T) {
	state := app.NewState()
	state.SetLoading("initial", false)
	state.SetLoadError(errors.New("open limpezas.xlsx: no such file"))
	m := New(state)
	m.SetSize(100, 30)

	if !strings.Contains(m.View(), "no such file") {
		t.Error("View should show the load error")
	}
}

func TestModel_ViewReport(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{}))
	m.SetSize(120, 80)

	view := m.View()
	for _, want := range []string{"limpezas.xlsx", "Plan1", "Occurrences", "00:17:30", "01:10:00", "Occurrences per day"} {
		if !strings.Contains(view, want) {
			t.Errorf("View does not contain %q", want)
		}
	}
}

func TestModel_ViewNoMatches(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{Location: "Andar 9"}))
	m.SetSize(120, 40)

	if !strings.Contains(m.View(), "No records match") {
		t.Error("View should report an empty selection")
	}
}

func TestModel_ToggleDaily(t *testing.T) {
	m := New(loadedState(t, analysis.Filters{}))
	m.SetSize(120, 80)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	if m.DailyMode() != DailyTable {
		t.Fatalf("DailyMode = %v, want table", m.DailyMode())
	}

	view := m.View()
	if !strings.Contains(view, "01/12/2024") || !strings.Contains(view, "50.00%") {
		t.Errorf("table should list dates and NN.NN%% shares:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	if m.DailyMode() != DailyCharts {
		t.Error("second toggle should return to charts")
	}
}

func TestRenderDailyTable(t *testing.T) {
	daily := []analysis.DayCount{
		{Date: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), Count: 1, Percent: 100.0 / 3},
		{Date: time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC), Count: 2, Percent: 200.0 / 3},
	}
	out := renderDailyTable(daily)
	if !strings.Contains(out, "33.33%") || !strings.Contains(out, "66.67%") {
		t.Errorf("table = %q", out)
	}
	if !strings.Contains(renderDailyTable(nil), "No dated records") {
		t.Error("empty table should say so")
	}
}

func TestModel_Update(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(80, 24)

	updated, _ := m.Update(nil)
	if updated == nil {
		t.Error("Update returned nil model")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	m.Update(app.FiltersChangedMsg{})
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
}

func TestModel_Help(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(m.FullHelp()) == 0 {
		t.Error("FullHelp empty")
	}
}
