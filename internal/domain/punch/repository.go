package punch

import (
	"context"
	"time"
)

// EventRepository defines data access methods for punch events.
// All methods include tenantID parameter to prevent cross-tenant data access.
type EventRepository interface {
	// Create appends a new punch event
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves a punch event by ID with tenant isolation
	GetByID(ctx context.Context, id string, tenantID string) (Event, error)

	// ListByEmployeeAndDay retrieves all events for an employee inside the
	// given service-day window [from, to), ordered by timestamp ascending
	ListByEmployeeAndDay(ctx context.Context, employeeID string, from, to time.Time, tenantID string) ([]Event, error)

	// List retrieves punch events with filters and pagination
	List(ctx context.Context, filter EventFilter, tenantID string) ([]Event, int64, error)

	// Update persists correction metadata and derived fields
	Update(ctx context.Context, event Event) error

	// ListEmployeeIDsWithEventsSince returns the distinct employees of a
	// tenant that produced at least one event at or after since. Used by the
	// reconciliation jobs to bound their scan.
	ListEmployeeIDsWithEventsSince(ctx context.Context, tenantID string, since time.Time) ([]string, error)
}
