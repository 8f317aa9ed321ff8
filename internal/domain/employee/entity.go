package employee

import "time"

// Employee is the workforce record the engine reconciles attendance for.
// UserID links to the account used for manager identity; employees without
// an account still punch and still get reconciled.
type Employee struct {
	ID           string
	TenantID     string
	UserID       *string
	Matricule    string
	FirstName    string
	LastName     string
	Email        *string
	DepartmentID *string
	SiteID       *string
	TeamID       *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
