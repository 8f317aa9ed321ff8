package schedule

import "time"

// Status of a schedule row. Only PUBLISHED rows create an attendance
// expectation; DRAFT planning and leave-suspended rows resolve to no plan.
type Status string

const (
	StatusPublished        Status = "PUBLISHED"
	StatusDraft            Status = "DRAFT"
	StatusSuspendedByLeave Status = "SUSPENDED_BY_LEAVE"
)

// Shift is a reusable wall-clock template. StartTime and EndTime are "15:04"
// strings in the tenant timezone; an EndTime at or before StartTime marks a
// night shift that ends on the following day.
type Shift struct {
	ID           string
	TenantID     string
	Name         string
	StartTime    string
	EndTime      string
	BreakMinutes int
	IsNightShift bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Schedule assigns an employee to a shift on a date. Custom times override
// the shift template for that day only.
type Schedule struct {
	ID                 string
	TenantID           string
	EmployeeID         string
	Date               time.Time
	ShiftID            *string
	CustomStartTime    *string
	CustomEndTime      *string
	Status             Status
	SuspendedByLeaveID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Shift *Shift
}

// PlannedInterval is the resolved expectation for one employee day: absolute
// times in the tenant timezone, break carried alongside.
type PlannedInterval struct {
	Start        time.Time
	End          time.Time
	BreakMinutes int
}

// ScheduledMinutes is planned presence net of break.
func (p PlannedInterval) ScheduledMinutes() int {
	m := int(p.End.Sub(p.Start).Minutes()) - p.BreakMinutes
	if m < 0 {
		return 0
	}
	return m
}
