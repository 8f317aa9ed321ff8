package anomaly

import "context"

// Service defines the read surface over anomaly snapshots.
type Service interface {
	// ListAnomalies retrieves anomalies scoped to the caller's manager level
	ListAnomalies(ctx context.Context, filter Filter) (ListResponse, error)
}
