// Package main is the entry point for the bed turnaround dashboard.
// It initializes configuration, logging and services, and runs the Bubble
// Tea program.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/leitos-dashboard-tui/internal/app"
	"github.com/j-veylop/leitos-dashboard-tui/internal/config"
	"github.com/j-veylop/leitos-dashboard-tui/internal/logger"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/tabs/conformance"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/tabs/distribution"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/leitos-dashboard-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/leitos-dashboard-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-v", "--version":
			fmt.Println(version.Info())
			os.Exit(0)
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	var spreadsheet string
	if len(os.Args) > 1 {
		spreadsheet = os.Args[1]
	}

	if err := run(spreadsheet); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run(spreadsheet string) error {
	// 1. Configuration from .env files, the environment and the argument
	cfg, err := config.Load(spreadsheet)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Logging goes to a file; the terminal belongs to the TUI
	closeLog := setupLogging(cfg)
	defer closeLog()

	logger.Info("starting", "version", version.GetVersion(), "spreadsheet", cfg.SpreadsheetPath)

	// 3. Service manager: loads the spreadsheet and watches it for changes
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Root model and tabs sharing one state
	model := app.NewModel(svcManager)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		conformance.New(state),
		distribution.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// setupLogging opens the log file. Logging is discarded when no path is
// configured or the file cannot be opened.
func setupLogging(cfg *config.Config) func() {
	if cfg.LogPath == "" {
		logger.Discard()
		return func() {}
	}

	closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; logging disabled\n", err)
		logger.Discard()
		return func() {}
	}
	return func() { closeQuietly(closer) }
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`Leitos Dashboard TUI - bed cleaning turnaround dashboard

Usage:
  ldt [spreadsheet.xlsx|spreadsheet.csv]
  ldt [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch tabs (Overview, Conformance, Distribution, Info)
  Tab/Shift+Tab   Navigate between tabs
  [ / ]           Move the period start one day back/forward
  { / }           Move the period end one day back/forward
  f / F           Next/previous location
  s               Toggle threshold scope (global/filtered)
  0               Reset filters
  r               Reload the spreadsheet
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  SPREADSHEET_PATH        Spreadsheet to open when no argument is given
  SHEET_NAME              Worksheet name (default: first sheet)
  COLUMN_PROFILE_PATH     YAML file overriding the column names
  THRESHOLD_SCOPE         global (default) or filtered
  ALL_LOCATIONS_LABEL     Caption of the all-locations entry (default: Todos)
  DESKTOP_NOTIFICATIONS   Notify when the slowest location changes (default: true)
  RELOAD_DEBOUNCE         Delay before reloading a changed file (default: 500ms)
  LOG_PATH                Log file (default: ~/.config/leitos-tui/ldt.log)
  LOG_LEVEL               debug, info, warn or error

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/leitos-tui/.env
  - ~/.leitos/.env`)
}
