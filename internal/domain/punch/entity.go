package punch

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a clock event.
type Kind string

const (
	KindIn         Kind = "IN"
	KindOut        Kind = "OUT"
	KindBreakStart Kind = "BREAK_START"
	KindBreakEnd   Kind = "BREAK_END"
)

var KindValues = []string{
	string(KindIn),
	string(KindOut),
	string(KindBreakStart),
	string(KindBreakEnd),
}

// Method is how the event was captured.
type Method string

const (
	MethodBadge     Method = "BADGE"
	MethodBiometric Method = "BIOMETRIC"
	MethodManual    Method = "MANUAL"
	MethodWeb       Method = "WEB"
	MethodMobile    Method = "MOBILE"
)

var MethodValues = []string{
	string(MethodBadge),
	string(MethodBiometric),
	string(MethodManual),
	string(MethodWeb),
	string(MethodMobile),
}

// Event is one raw clock event. Events are append-only: a correction keeps
// the original timestamp in OriginalTimestamp and is tracked by corrector
// identity and approval flag, never overwritten in place.
type Event struct {
	ID         string // ULID, time-ordered
	TenantID   string
	EmployeeID string
	DeviceID   *string
	Timestamp  time.Time // always UTC
	Kind       Kind
	Method     Method

	// Faulty marks a capture the device adapter flagged as unreliable
	// (offline terminal replay, checksum mismatch). Feeds ABSENCE_TECHNICAL.
	Faulty bool

	// Correction audit trail
	OriginalTimestamp  *time.Time
	CorrectionNote     *string
	CorrectedBy        *string
	CorrectedAt        *time.Time
	CorrectionApproved *bool

	// Derived fields, materialized on the terminal OUT punch of a day only.
	WorkedMinutes   *int
	OvertimeMinutes *int
	HoursWorked     *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName      *string
	EmployeeMatricule *string
}

// IsCorrected reports whether the event went through a tracked correction.
func (e Event) IsCorrected() bool {
	return e.OriginalTimestamp != nil
}
