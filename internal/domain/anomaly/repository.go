package anomaly

import (
	"context"
	"time"
)

// Repository persists the classifier's per-day snapshot. ReplaceDay is the
// only write path: a reclassification of the same employee day overwrites the
// previous snapshot wholesale, which keeps the table convergent with the pure
// classifier output no matter how many ticks ran in between.
type Repository interface {
	// ReplaceDay deletes the previous snapshot for the employee day and
	// inserts the given anomalies atomically
	ReplaceDay(ctx context.Context, tenantID, employeeID string, date time.Time, anomalies []Anomaly) error

	// ListByEmployeeAndDay retrieves the current snapshot for one employee day
	ListByEmployeeAndDay(ctx context.Context, employeeID string, date time.Time, tenantID string) ([]Anomaly, error)

	// List retrieves anomalies with filters and pagination
	List(ctx context.Context, filter Filter, tenantID string) ([]Anomaly, int64, error)
}
