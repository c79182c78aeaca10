// Package dataset loads the cleaning spreadsheet and reloads it whenever the
// file on disk is replaced.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/logger"
	"github.com/j-veylop/leitos-dashboard-tui/internal/sheet"
)

// ErrNoFile is reported when no spreadsheet path has been configured.
var ErrNoFile = errors.New("no spreadsheet configured")

// Event represents a dataset service event.
type Event struct {
	Type  EventType
	Error error
}

// EventType defines the type of dataset event.
type EventType int

const (
	EventDatasetLoaded EventType = iota
	EventDatasetChanged
	EventError
)

const defaultDebounce = 500 * time.Millisecond

// Options configure a Service.
type Options struct {
	Path      string
	SheetName string
	Profile   analysis.Profile
	Debounce  time.Duration
}

// Source describes the file the current dataset was built from.
type Source struct {
	Path     string
	Sheet    string
	Format   sheet.Format
	Rows     int
	ModTime  time.Time
	LoadedAt time.Time
}

// Service owns the current dataset between analysis passes. A failed reload
// keeps the previous dataset.
type Service struct {
	mu            sync.RWMutex
	opts          Options
	dataset       *analysis.Dataset
	source        Source
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates the service, performs the first load and starts watching the
// file. A missing or malformed file is not fatal: the failure is sent as an
// event and the next write to the file is picked up.
func New(opts Options) (*Service, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	s := &Service{
		opts:      opts,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if opts.Path == "" {
		return s, nil
	}

	if err := s.reload(); err != nil {
		logger.Warn("initial load failed", "path", opts.Path, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
	} else {
		s.sendEvent(Event{Type: EventDatasetLoaded})
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// Load reads and validates a spreadsheet into a dataset.
func Load(path, sheetName string, profile analysis.Profile) (*analysis.Dataset, Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, Source{}, fmt.Errorf("failed to stat spreadsheet: %w", err)
	}

	sh, err := sheet.Open(path, sheetName)
	if err != nil {
		return nil, Source{}, err
	}

	ds, err := analysis.NewDataset(analysis.NewTable(sh.Header, sh.Rows), profile)
	if err != nil {
		return nil, Source{}, err
	}

	if n := ds.UnparsableTotal(); n > 0 {
		logger.Warn("unparsable cells dropped", "path", path, "count", n, "columns", ds.Unparsable)
	}

	return ds, Source{
		Path:     path,
		Sheet:    sh.Name,
		Format:   sh.Format,
		Rows:     len(ds.Records),
		ModTime:  info.ModTime(),
		LoadedAt: time.Now(),
	}, nil
}

// Events returns the event channel for subscribing to dataset changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Dataset returns the current dataset, or nil before the first good load.
func (s *Service) Dataset() *analysis.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Source returns the provenance of the current dataset.
func (s *Service) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Path returns the watched spreadsheet path.
func (s *Service) Path() string {
	return s.opts.Path
}

// Reload forces a synchronous reload and emits the matching event.
func (s *Service) Reload() error {
	if s.opts.Path == "" {
		return ErrNoFile
	}
	if err := s.reload(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return err
	}
	s.sendEvent(Event{Type: EventDatasetChanged})
	return nil
}

func (s *Service) reload() error {
	ds, src, err := Load(s.opts.Path, s.opts.SheetName, s.opts.Profile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dataset = ds
	s.source = src
	s.mu.Unlock()

	logger.Info("spreadsheet loaded", "path", src.Path, "sheet", src.Sheet, "rows", src.Rows)
	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so atomic replacements are seen as Create events.
	dir := filepath.Dir(s.opts.Path)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	target := filepath.Base(s.opts.Path)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(s.opts.Debounce, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the spreadsheet after it was replaced on disk.
func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}

	if err := s.reload(); err != nil {
		logger.Warn("reload failed", "path", s.opts.Path, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	s.sendEvent(Event{Type: EventDatasetChanged})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
