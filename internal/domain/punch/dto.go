package punch

import (
	"time"

	"github.com/shiftly-hq/presence-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PUNCH DTOs
// ========================================

// IngestRequest is one clock event pushed by a badge terminal or biometric
// device through the webhook endpoint.
type IngestRequest struct {
	TenantID   string    `json:"-"`
	EmployeeID string    `json:"employee_id"`
	DeviceID   *string   `json:"device_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	Method     string    `json:"method"`
	Faulty     bool      `json:"faulty"`
}

func (r *IngestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	}

	if !validator.IsInSlice(r.Kind, KindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of IN, OUT, BREAK_START, BREAK_END",
		})
	}

	if !validator.IsInSlice(r.Method, MethodValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of BADGE, BIOMETRIC, MANUAL, WEB, MOBILE",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualPunchRequest records a punch on behalf of an employee (kiosk, HR).
type ManualPunchRequest struct {
	EmployeeID string    `json:"employee_id"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	RecordedBy string    `json:"-"`
}

func (r *ManualPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Timestamp.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	}

	if !validator.IsInSlice(r.Kind, KindValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of IN, OUT, BREAK_START, BREAK_END",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CorrectionRequest adjusts a recorded event's timestamp. The original
// timestamp is preserved on the event for the audit trail.
type CorrectionRequest struct {
	EventID      string    `json:"-"`
	NewTimestamp time.Time `json:"new_timestamp"`
	Note         string    `json:"note"`
	CorrectedBy  string    `json:"-"`
	Approved     bool      `json:"approved"`
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.NewTimestamp.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "new_timestamp",
			Message: "new_timestamp is required",
		})
	}

	if validator.IsEmpty(r.Note) {
		errs = append(errs, validator.ValidationError{
			Field:   "note",
			Message: "note is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EventFilter filters the admin/manager event listing.
type EventFilter struct {
	EmployeeID *string
	DateFrom   *time.Time
	DateTo     *time.Time
	Kind       *string
	Method     *string
	// EmployeeIDs scopes the listing to a manager's employees when set.
	EmployeeIDs []string

	Page    int
	PerPage int
}

// EventResponse is the API shape of a punch event.
type EventResponse struct {
	ID                string           `json:"id"`
	EmployeeID        string           `json:"employee_id"`
	EmployeeName      *string          `json:"employee_name,omitempty"`
	EmployeeMatricule *string          `json:"employee_matricule,omitempty"`
	DeviceID          *string          `json:"device_id,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
	Kind              string           `json:"kind"`
	Method            string           `json:"method"`
	Faulty            bool             `json:"faulty"`
	OriginalTimestamp *time.Time       `json:"original_timestamp,omitempty"`
	CorrectionNote    *string          `json:"correction_note,omitempty"`
	WorkedMinutes     *int             `json:"worked_minutes,omitempty"`
	OvertimeMinutes   *int             `json:"overtime_minutes,omitempty"`
	HoursWorked       *decimal.Decimal `json:"hours_worked,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

func ToEventResponse(e Event) EventResponse {
	return EventResponse{
		ID:                e.ID,
		EmployeeID:        e.EmployeeID,
		EmployeeName:      e.EmployeeName,
		EmployeeMatricule: e.EmployeeMatricule,
		DeviceID:          e.DeviceID,
		Timestamp:         e.Timestamp,
		Kind:              string(e.Kind),
		Method:            string(e.Method),
		Faulty:            e.Faulty,
		OriginalTimestamp: e.OriginalTimestamp,
		CorrectionNote:    e.CorrectionNote,
		WorkedMinutes:     e.WorkedMinutes,
		OvertimeMinutes:   e.OvertimeMinutes,
		HoursWorked:       e.HoursWorked,
		CreatedAt:         e.CreatedAt,
	}
}

// ListEventsResponse is a paginated event listing.
type ListEventsResponse struct {
	Events  []EventResponse `json:"events"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}
