package leave

import (
	"context"
	"time"
)

// Repository defines data access for leaves.
type Repository interface {
	// ListApprovedByEmployeeAndDate returns the approved leaves covering the
	// date for one employee, with leave type joined in
	ListApprovedByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, tenantID string) ([]Leave, error)
}
