package app

import (
	"time"

	"github.com/j-veylop/leitos-dashboard-tui/internal/analysis"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services"
	"github.com/j-veylop/leitos-dashboard-tui/internal/services/dataset"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// DatasetLoadedMsg carries the dataset available when the program starts.
type DatasetLoadedMsg struct {
	Dataset *analysis.Dataset
	Source  dataset.Source
	// NoFile is set when no spreadsheet path was configured.
	NoFile bool
}

// AnalysisDoneMsg carries the report of one analysis pass.
type AnalysisDoneMsg struct {
	ID     string
	Report *analysis.Report
}

// ReloadResultMsg is the outcome of a manual reload.
type ReloadResultMsg struct {
	Error error
}

// FiltersChangedMsg signals that the shared filter selection changed.
type FiltersChangedMsg struct {
	Filters analysis.Filters
	Scope   analysis.ThresholdScope
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
