package anomaly

import "time"

// Filter filters the scoped anomaly listing.
type Filter struct {
	EmployeeID *string
	Type       *string
	DateFrom   *time.Time
	DateTo     *time.Time
	// EmployeeIDs scopes the listing to a manager's employees when set.
	EmployeeIDs []string

	Page    int
	PerPage int
}

// Response is the API shape of an anomaly.
type Response struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	EmployeeName      *string   `json:"employee_name,omitempty"`
	EmployeeMatricule *string   `json:"employee_matricule,omitempty"`
	Type              string    `json:"type"`
	Date              time.Time `json:"date"`
	PunchID           *string   `json:"punch_id,omitempty"`
	LateMinutes       *int      `json:"late_minutes,omitempty"`
	OpenSinceMinutes  *int      `json:"open_since_minutes,omitempty"`
	Note              string    `json:"note,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func ToResponse(a Anomaly) Response {
	return Response{
		ID:                a.ID,
		EmployeeID:        a.EmployeeID,
		EmployeeName:      a.EmployeeName,
		EmployeeMatricule: a.EmployeeMatricule,
		Type:              string(a.Type),
		Date:              a.Date,
		PunchID:           a.PunchID,
		LateMinutes:       a.LateMinutes,
		OpenSinceMinutes:  a.OpenSinceMinutes,
		Note:              a.Note,
		CreatedAt:         a.CreatedAt,
	}
}

// ListResponse is a paginated anomaly listing.
type ListResponse struct {
	Anomalies []Response `json:"anomalies"`
	Total     int64      `json:"total"`
	Page      int        `json:"page"`
	PerPage   int        `json:"per_page"`
}
