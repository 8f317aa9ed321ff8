package punch

import (
	"context"
)

// EventService defines business logic for punch event operations
type EventService interface {
	// Ingest records a device-originated event and runs live anomaly
	// classification for the affected employee day
	Ingest(ctx context.Context, req IngestRequest) (EventResponse, error)

	// RecordManual records a manual punch on behalf of an employee
	RecordManual(ctx context.Context, req ManualPunchRequest) (EventResponse, error)

	// Correct adjusts an event's timestamp, keeping the audit trail, and
	// re-runs classification for the affected day
	Correct(ctx context.Context, req CorrectionRequest) (EventResponse, error)

	// GetEvent retrieves a single punch event by ID
	GetEvent(ctx context.Context, id string) (EventResponse, error)

	// ListEvents retrieves punch events with filters (admin/manager)
	ListEvents(ctx context.Context, filter EventFilter) (ListEventsResponse, error)
}
