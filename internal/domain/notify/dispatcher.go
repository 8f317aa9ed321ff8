package notify

import (
	"context"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
)

// Request is one notification handed to a dispatcher. Payload carries the
// template fields; dispatchers must not reach back into the database.
type Request struct {
	TenantID     string
	ManagerID    string
	ManagerEmail string
	EmployeeName string
	AnomalyType  anomaly.Type
	Payload      map[string]string
}

// Dispatcher delivers a notification over some transport. A Dispatch return
// means the attempt was handed to the transport; delivery guarantees are the
// transport's problem, and a transport failure does not undo the ledger
// record for the attempt.
type Dispatcher interface {
	Dispatch(ctx context.Context, req Request) error
}
