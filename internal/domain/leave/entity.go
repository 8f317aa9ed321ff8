package leave

import "time"

type Status string

const (
	StatusPending         Status = "PENDING"
	StatusApproved        Status = "APPROVED"
	StatusManagerApproved Status = "MANAGER_APPROVED"
	StatusHRApproved      Status = "HR_APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusCancelled       Status = "CANCELLED"
)

// approvedStatuses are the statuses that suppress attendance expectations.
var approvedStatuses = map[Status]bool{
	StatusApproved:        true,
	StatusManagerApproved: true,
	StatusHRApproved:      true,
}

// remoteCodes are leave type codes for employees working away rather than
// absent: no anomaly detection runs at all for them.
var remoteCodes = map[string]bool{
	"TELETRAVAIL": true,
	"REMOTE":      true,
	"MISSION":     true,
}

type LeaveType struct {
	ID       string
	TenantID string
	Code     string
	Name     string
}

type Leave struct {
	ID          string
	TenantID    string
	EmployeeID  string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	LeaveType *LeaveType
}

// IsApproved reports whether the leave counts as approved at any level.
func (l Leave) IsApproved() bool {
	return approvedStatuses[l.Status]
}

// IsRemoteWork reports whether the leave marks remote work rather than
// absence.
func (l Leave) IsRemoteWork() bool {
	return l.LeaveType != nil && remoteCodes[l.LeaveType.Code]
}

// Covers reports whether date falls inside the leave range, inclusive.
func (l Leave) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(l.StartDate.Truncate(24*time.Hour)) && !d.After(l.EndDate.Truncate(24*time.Hour))
}
