package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, tenant_id, user_id, matricule, first_name, last_name, email,
	department_id, site_id, team_id, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row, e *employee.Employee) error {
	return row.Scan(
		&e.ID, &e.TenantID, &e.UserID, &e.Matricule, &e.FirstName, &e.LastName, &e.Email,
		&e.DepartmentID, &e.SiteID, &e.TeamID, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, id string, tenantID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1
		  AND tenant_id = $2
	`

	var e employee.Employee
	err := scanEmployee(q.QueryRow(ctx, query, id, tenantID), &e)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return e, nil
}

// GetByUserID implements employee.Repository.
func (r *employeeRepository) GetByUserID(ctx context.Context, userID string, tenantID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE user_id = $1
		  AND tenant_id = $2
	`

	var e employee.Employee
	err := scanEmployee(q.QueryRow(ctx, query, userID, tenantID), &e)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by user ID: %w", err)
	}

	return e, nil
}

// ListActiveByIDs implements employee.Repository.
func (r *employeeRepository) ListActiveByIDs(ctx context.Context, ids []string, tenantID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = ANY($1)
		  AND tenant_id = $2
		  AND is_active = true
	`

	rows, err := q.Query(ctx, query, ids, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListIDsByDepartments implements employee.Repository.
func (r *employeeRepository) ListIDsByDepartments(ctx context.Context, departmentIDs []string, tenantID string) ([]string, error) {
	query := `
		SELECT id FROM employees
		WHERE department_id = ANY($1)
		  AND tenant_id = $2
		  AND is_active = true
	`
	return r.listIDs(ctx, query, departmentIDs, tenantID)
}

// ListIDsBySite implements employee.Repository.
func (r *employeeRepository) ListIDsBySite(ctx context.Context, siteID string, departmentID *string, tenantID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id FROM employees
		WHERE site_id = $1
		  AND tenant_id = $2
		  AND is_active = true
	`
	args := []interface{}{siteID, tenantID}
	if departmentID != nil {
		query += " AND department_id = $3"
		args = append(args, *departmentID)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query site employees: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

// ListIDsByTeams implements employee.Repository.
func (r *employeeRepository) ListIDsByTeams(ctx context.Context, teamIDs []string, tenantID string) ([]string, error) {
	query := `
		SELECT id FROM employees
		WHERE team_id = ANY($1)
		  AND tenant_id = $2
		  AND is_active = true
	`
	return r.listIDs(ctx, query, teamIDs, tenantID)
}

func (r *employeeRepository) listIDs(ctx context.Context, query string, scopeIDs []string, tenantID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, scopeIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee ids: %w", err)
	}
	defer rows.Close()

	return collectIDs(rows)
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

func collectIDs(rows pgx.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
