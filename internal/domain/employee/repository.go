package employee

import "context"

// Repository defines data access for employees.
// All methods include tenantID parameter to prevent cross-tenant data access.
type Repository interface {
	// GetByID retrieves an employee with tenant isolation
	GetByID(ctx context.Context, id string, tenantID string) (Employee, error)

	// GetByUserID retrieves the employee record bound to an account
	GetByUserID(ctx context.Context, userID string, tenantID string) (Employee, error)

	// ListActiveByIDs retrieves the active employees among the given ids
	ListActiveByIDs(ctx context.Context, ids []string, tenantID string) ([]Employee, error)

	// ListIDsByDepartments returns active employee ids in any of the departments
	ListIDsByDepartments(ctx context.Context, departmentIDs []string, tenantID string) ([]string, error)

	// ListIDsBySite returns active employee ids on a site, optionally
	// restricted to one department of that site
	ListIDsBySite(ctx context.Context, siteID string, departmentID *string, tenantID string) ([]string, error)

	// ListIDsByTeams returns active employee ids in any of the teams
	ListIDsByTeams(ctx context.Context, teamIDs []string, tenantID string) ([]string, error)
}
