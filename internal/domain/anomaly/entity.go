package anomaly

import "time"

// Type is the closed set of anomaly classifications. Adding a value here
// means touching the classifier decision table and the notification policy
// mapping; there is no open-ended variant.
type Type string

const (
	TypeLate             Type = "LATE"
	TypeMissingIn        Type = "MISSING_IN"
	TypeMissingOut       Type = "MISSING_OUT"
	TypeDoubleIn         Type = "DOUBLE_IN"
	TypeDoubleOut        Type = "DOUBLE_OUT"
	TypeAbsence          Type = "ABSENCE"
	TypeAbsencePartial   Type = "ABSENCE_PARTIAL"
	TypeAbsenceTechnical Type = "ABSENCE_TECHNICAL"
)

var TypeValues = []string{
	string(TypeLate),
	string(TypeMissingIn),
	string(TypeMissingOut),
	string(TypeDoubleIn),
	string(TypeDoubleOut),
	string(TypeAbsence),
	string(TypeAbsencePartial),
	string(TypeAbsenceTechnical),
}

// Anomaly is one classification produced for an employee day. PunchID is set
// for punch-attached types (LATE, MISSING_IN, MISSING_OUT, DOUBLE_IN,
// DOUBLE_OUT and technical faults tied to a capture); day-level types
// (ABSENCE, ABSENCE_PARTIAL) leave it nil.
type Anomaly struct {
	ID         string
	TenantID   string
	EmployeeID string
	Type       Type
	Date       time.Time // service day, midnight tenant tz
	PunchID    *string

	// LateMinutes is set for LATE only: minutes past start plus tolerance.
	LateMinutes *int

	// OpenSinceMinutes is set for ABSENCE_PARTIAL and MISSING_OUT: minutes
	// the session has been open at classification time.
	OpenSinceMinutes *int

	Note      string
	CreatedAt time.Time

	// DTO
	EmployeeName      *string
	EmployeeMatricule *string
}
