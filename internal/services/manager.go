// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/config"
	"github.com/j-veylop/leitos-dashboard-tui/internal/logger"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
)

type (
	// DatasetChangedEvent is emitted after the spreadsheet was (re)loaded.
	DatasetChangedEvent struct {
		Source  dataset.Source
		Dataset *analysis.Dataset
		Initial bool
	}

	// BottleneckChangedEvent is emitted when a reload moves the slowest
	// location of the unfiltered data.
	BottleneckChangedEvent struct {
		Previous *analysis.Bottleneck
		Current  *analysis.Bottleneck
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DatasetChangedEvent) isServiceEvent()    {}
func (BottleneckChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()             {}

// Notifier delivers a desktop notification.
type Notifier func(title, body string) error

// DesktopNotifier sends notifications through the OS notification daemon.
func DesktopNotifier(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	dataset     *dataset.Service
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	slowest     *analysis.Bottleneck
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
	if cfg.DesktopNotifications {
		m.notify = DesktopNotifier
	}

	var err error
	m.dataset, err = dataset.New(dataset.Options{
		Path:      cfg.SpreadsheetPath,
		SheetName: cfg.SheetName,
		Profile:   cfg.Profile,
		Debounce:  cfg.ReloadDebounce,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dataset service: %w", err)
	}

	go m.routeEvents()

	return m, nil
}

// SetNotifier replaces the desktop notifier. A nil notifier disables
// notifications.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = n
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.dataset.Events():
			m.handleDatasetEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleDatasetEvent converts and broadcasts dataset events.
func (m *Manager) handleDatasetEvent(event dataset.Event) {
	switch event.Type {
	case dataset.EventDatasetLoaded, dataset.EventDatasetChanged:
		ds := m.dataset.Dataset()
		m.broadcast(DatasetChangedEvent{
			Source:  m.dataset.Source(),
			Dataset: ds,
			Initial: event.Type == dataset.EventDatasetLoaded,
		})
		m.checkBottleneck(ds)

	case dataset.EventError:
		m.broadcast(ErrorEvent{
			Service: "dataset",
			Error:   event.Error,
		})
	}
}

// checkBottleneck compares the slowest location of the whole dataset with
// the one seen on the previous load. Every change is broadcast; the desktop
// notification is sent only when a reload moves an existing bottleneck.
func (m *Manager) checkBottleneck(ds *analysis.Dataset) {
	if ds == nil {
		return
	}
	report := analysis.Analyze(ds, analysis.Filters{Location: analysis.AllLocations}, analysis.Options{Scope: analysis.ScopeGlobal})
	current := report.SlowestLocation

	m.mu.Lock()
	previous := m.slowest
	m.slowest = current
	notify := m.notify
	m.mu.Unlock()

	if current == nil || (previous != nil && previous.Group == current.Group) {
		return
	}

	m.broadcast(BottleneckChangedEvent{Previous: previous, Current: current})

	// The first load only sets the baseline.
	if notify == nil || previous == nil {
		return
	}
	title := fmt.Sprintf("Gargalo: %s", current.Group)
	body := fmt.Sprintf("%.2f%% das higienizações em %s estão acima do percentil 90. Antes: %s.",
		current.Percent, current.Group, previous.Group)
	if err := notify(title, body); err != nil {
		logger.Debug("desktop notification failed", "error", err)
	}
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Dataset returns the current dataset, or nil when nothing is loaded.
func (m *Manager) Dataset() *analysis.Dataset {
	return m.dataset.Dataset()
}

// Source returns the provenance of the current dataset.
func (m *Manager) Source() dataset.Source {
	return m.dataset.Source()
}

// Path returns the configured spreadsheet path.
func (m *Manager) Path() string {
	return m.dataset.Path()
}

// Analyze runs one analysis pass over the current dataset.
func (m *Manager) Analyze(filters analysis.Filters, scope analysis.ThresholdScope) *analysis.Report {
	return analysis.Analyze(m.dataset.Dataset(), filters, analysis.Options{Scope: scope})
}

// Reload forces the spreadsheet to be read again.
func (m *Manager) Reload() error {
	return m.dataset.Reload()
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	return m.dataset.Close()
}

// InitialState returns the dataset available at startup.
func (m *Manager) InitialState() (*analysis.Dataset, dataset.Source) {
	return m.dataset.Dataset(), m.dataset.Source()
}
