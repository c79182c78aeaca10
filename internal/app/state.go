// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Dataset  bool
	Analysis bool
}

// FilterState is the filter selection shared by every tab.
type FilterState struct {
	Start time.Time
	End   time.Time
	// LocationIndex points into Locations(); zero is the all-locations entry.
	LocationIndex int
	Scope         analysis.ThresholdScope
}

// State is the application state shared between the root model and the tabs.
type State struct {
	mu sync.RWMutex

	Dataset    *analysis.Dataset
	Source     dataset.Source
	Report     *analysis.Report
	Bottleneck *analysis.Bottleneck
	LoadError  error

	Loading LoadingState

	LastUpdated time.Time

	filters       FilterState
	defaultScope  analysis.ThresholdScope
	allLabel      string
	pendingPass   string
	notifications []Notification
}

// NewState creates an empty state waiting for the first dataset.
func NewState() *State {
	return &State{
		allLabel:      "Todos",
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// Configure sets the default threshold scope and the caption of the
// all-locations entry.
func (s *State) Configure(scope analysis.ThresholdScope, allLabel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultScope = scope
	s.filters.Scope = scope
	if allLabel != "" {
		s.allLabel = allLabel
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "dataset":
		s.Loading.Dataset = loading
	case "analysis":
		s.Loading.Analysis = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Dataset ||
		s.Loading.Analysis
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Dataset {
		resources = append(resources, "dataset")
	}
	if s.Loading.Analysis {
		resources = append(resources, "analysis")
	}
	return resources
}

// SetDataset installs a freshly loaded dataset. The date range resets to the
// span of the new file; the location survives when the new file still has it.
func (s *State) SetDataset(ds *analysis.Dataset, src dataset.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.locationLocked()

	s.Dataset = ds
	s.Source = src
	s.LoadError = nil
	s.LastUpdated = time.Now()

	s.filters.Start, s.filters.End = time.Time{}, time.Time{}
	s.filters.LocationIndex = 0
	if ds == nil {
		return
	}
	if ds.HasDates {
		s.filters.Start, s.filters.End = ds.MinDate, ds.MaxDate
	}
	for i, loc := range ds.Locations {
		if loc == previous {
			s.filters.LocationIndex = i + 1
			break
		}
	}
}

// GetDataset returns the current dataset.
func (s *State) GetDataset() *analysis.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Dataset
}

// GetSource returns where the current dataset came from.
func (s *State) GetSource() dataset.Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Source
}

// HasDataset reports whether a spreadsheet has been loaded.
func (s *State) HasDataset() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Dataset != nil
}

// SetLoadError records the last load failure.
func (s *State) SetLoadError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LoadError = err
}

// GetLoadError returns the last load failure, cleared by a good load.
func (s *State) GetLoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LoadError
}

// SetBottleneck records the slowest location of the whole dataset.
func (s *State) SetBottleneck(b *analysis.Bottleneck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Bottleneck = b
}

// GetBottleneck returns the slowest location of the whole dataset.
func (s *State) GetBottleneck() *analysis.Bottleneck {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Bottleneck
}

// Locations returns the selectable locations, the all-locations entry first.
func (s *State) Locations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{s.allLabel}
	if s.Dataset != nil {
		out = append(out, s.Dataset.Locations...)
	}
	return out
}

// LocationLabel returns the caption of the selected location.
func (s *State) LocationLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if loc := s.locationLocked(); loc != "" {
		return loc
	}
	return s.allLabel
}

func (s *State) locationLocked() string {
	i := s.filters.LocationIndex
	if i <= 0 || s.Dataset == nil || i > len(s.Dataset.Locations) {
		return ""
	}
	return s.Dataset.Locations[i-1]
}

// GetFilterState returns a copy of the filter selection.
func (s *State) GetFilterState() FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// Filters converts the selection into analysis filters.
func (s *State) Filters() analysis.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc := s.locationLocked()
	if loc == "" {
		loc = analysis.AllLocations
	}
	return analysis.Filters{
		Start:    s.filters.Start,
		End:      s.filters.End,
		Location: loc,
	}
}

// ShiftStart moves the start date by days, clamped to the first date of the
// file and to the end date. It reports whether the filter changed.
func (s *State) ShiftStart(days int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Dataset == nil || !s.Dataset.HasDates {
		return false
	}
	next := clampDate(s.filters.Start.AddDate(0, 0, days), s.Dataset.MinDate, s.filters.End)
	if next.Equal(s.filters.Start) {
		return false
	}
	s.filters.Start = next
	return true
}

// ShiftEnd moves the end date by days, clamped to the start date and to the
// last date of the file. It reports whether the filter changed.
func (s *State) ShiftEnd(days int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Dataset == nil || !s.Dataset.HasDates {
		return false
	}
	next := clampDate(s.filters.End.AddDate(0, 0, days), s.filters.Start, s.Dataset.MaxDate)
	if next.Equal(s.filters.End) {
		return false
	}
	s.filters.End = next
	return true
}

func clampDate(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}

// CycleLocation moves the location selection by delta, wrapping around.
func (s *State) CycleLocation(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Dataset == nil || len(s.Dataset.Locations) == 0 {
		return false
	}
	n := len(s.Dataset.Locations) + 1
	s.filters.LocationIndex = ((s.filters.LocationIndex+delta)%n + n) % n
	return true
}

// ToggleScope switches the threshold population and returns the new scope.
func (s *State) ToggleScope() analysis.ThresholdScope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filters.Scope == analysis.ScopeGlobal {
		s.filters.Scope = analysis.ScopeFiltered
	} else {
		s.filters.Scope = analysis.ScopeGlobal
	}
	return s.filters.Scope
}

// ResetFilters restores the full date range, all locations and the
// configured scope.
func (s *State) ResetFilters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.filters
	s.filters = FilterState{Scope: s.defaultScope}
	if s.Dataset != nil && s.Dataset.HasDates {
		s.filters.Start, s.filters.End = s.Dataset.MinDate, s.Dataset.MaxDate
	}
	return before != s.filters
}

// BeginAnalysis starts a new analysis pass and returns its ID. Reports of
// older passes are discarded by SetReport.
func (s *State) BeginAnalysis() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingPass = uuid.NewString()
	s.Loading.Analysis = true
	return s.pendingPass
}

// SetReport stores the report of the pending pass. It returns false for a
// stale pass.
func (s *State) SetReport(id string, report *analysis.Report) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.pendingPass {
		return false
	}
	s.Report = report
	s.pendingPass = ""
	s.Loading.Analysis = false
	s.LastUpdated = time.Now()
	return true
}

// GetReport returns the latest report.
func (s *State) GetReport() *analysis.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Report
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification := Notification{
		ID:        uuid.NewString(),
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return notification.ID
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
