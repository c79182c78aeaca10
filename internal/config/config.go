// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
)

// Config holds the application configuration.
type Config struct {
	SpreadsheetPath      string
	SheetName            string
	ProfilePath          string
	Profile              analysis.Profile
	ThresholdScope       analysis.ThresholdScope
	AllLocationsLabel    string
	DesktopNotifications bool
	ReloadDebounce       time.Duration
	LogPath              string
	LogLevel             slog.Level
}

// Default values
const (
	defaultReloadDebounce    = 500 * time.Millisecond
	defaultAllLocationsLabel = "Todos"
)

// Load reads configuration from .env files and environment variables.
// A non-empty spreadsheetArg takes precedence over SPREADSHEET_PATH.
func Load(spreadsheetArg string) (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		SpreadsheetPath:      getEnvString("SPREADSHEET_PATH", ""),
		SheetName:            getEnvString("SHEET_NAME", ""),
		ProfilePath:          getEnvString("COLUMN_PROFILE_PATH", ""),
		AllLocationsLabel:    getEnvString("ALL_LOCATIONS_LABEL", defaultAllLocationsLabel),
		DesktopNotifications: getEnvBool("DESKTOP_NOTIFICATIONS", true),
		ReloadDebounce:       getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		LogPath:              getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:             getEnvLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if spreadsheetArg != "" {
		cfg.SpreadsheetPath = spreadsheetArg
	}
	if cfg.SpreadsheetPath != "" {
		abs, err := filepath.Abs(cfg.SpreadsheetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve spreadsheet path: %w", err)
		}
		cfg.SpreadsheetPath = abs
	}

	scope, ok := analysis.ParseThresholdScope(strings.ToLower(getEnvString("THRESHOLD_SCOPE", "")))
	if !ok {
		return nil, fmt.Errorf("THRESHOLD_SCOPE must be %q or %q", analysis.ScopeGlobal, analysis.ScopeFiltered)
	}
	cfg.ThresholdScope = scope

	cfg.Profile = analysis.DefaultProfile()
	if cfg.ProfilePath != "" {
		profile, err := LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		cfg.Profile = profile
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "leitos-tui", ".env"),
			filepath.Join(home, ".leitos", ".env"),
		)
	}

	return paths
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ldt.log"
	}
	return filepath.Join(home, ".config", "leitos-tui", "ldt.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool accepts anything strconv.ParseBool does.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "500ms", "1s"; a bare integer is read as milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

// getEnvLevel parses debug, info, warn or error.
func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	if value := os.Getenv(key); value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
