package schedule

import (
	"context"
	"time"
)

// Repository defines data access for schedules and shifts.
// All methods include tenantID parameter to prevent cross-tenant data access.
type Repository interface {
	// GetByEmployeeAndDate retrieves the schedule row for an employee on a
	// date, with its shift joined in. Returns nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) (*Schedule, error)

	// GetShiftByID retrieves a shift template
	GetShiftByID(ctx context.Context, id string, tenantID string) (Shift, error)

	// ListScheduledEmployeeIDs returns the distinct employees of a tenant
	// with a PUBLISHED schedule on the given date. Used by the
	// reconciliation jobs to scope their scan.
	ListScheduledEmployeeIDs(ctx context.Context, tenantID string, date time.Time) ([]string, error)
}
