package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/org"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/database"
)

type orgRepository struct {
	db *database.DB
}

func NewOrgRepository(db *database.DB) org.Repository {
	return &orgRepository{db: db}
}

// ListDepartmentsByManager implements org.Repository.
func (r *orgRepository) ListDepartmentsByManager(ctx context.Context, userID string, tenantID string) ([]org.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, created_at, updated_at
		FROM departments
		WHERE manager_id = $1
		  AND tenant_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query managed departments: %w", err)
	}
	defer rows.Close()

	var departments []org.Department
	for rows.Next() {
		var d org.Department
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Name, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, nil
}

// ListSiteScopesByManager implements org.Repository.
func (r *orgRepository) ListSiteScopesByManager(ctx context.Context, userID string, tenantID string) ([]org.SiteManager, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, site_id, manager_id, department_id, created_at
		FROM site_managers
		WHERE manager_id = $1
		  AND tenant_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query site manager scopes: %w", err)
	}
	defer rows.Close()

	return collectSiteManagers(rows)
}

// ListSitesByLegacyManager implements org.Repository. Reads the direct
// manager column kept from before the site_managers migration.
func (r *orgRepository) ListSitesByLegacyManager(ctx context.Context, userID string, tenantID string) ([]org.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, department_id, created_at, updated_at
		FROM sites
		WHERE manager_id = $1
		  AND tenant_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy managed sites: %w", err)
	}
	defer rows.Close()

	var sites []org.Site
	for rows.Next() {
		var s org.Site
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.ManagerID, &s.DepartmentID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}

	return sites, nil
}

// ListTeamsByManager implements org.Repository.
func (r *orgRepository) ListTeamsByManager(ctx context.Context, userID string, tenantID string) ([]org.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, created_at, updated_at
		FROM teams
		WHERE manager_id = $1
		  AND tenant_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query managed teams: %w", err)
	}
	defer rows.Close()

	var teams []org.Team
	for rows.Next() {
		var t org.Team
		if err := rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.ManagerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, nil
}

// GetDepartmentByID implements org.Repository.
func (r *orgRepository) GetDepartmentByID(ctx context.Context, id string, tenantID string) (org.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, created_at, updated_at
		FROM departments
		WHERE id = $1
		  AND tenant_id = $2
	`

	var d org.Department
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&d.ID, &d.TenantID, &d.Name, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return org.Department{}, org.ErrDepartmentNotFound
		}
		return org.Department{}, fmt.Errorf("failed to get department: %w", err)
	}

	return d, nil
}

// GetSiteByID implements org.Repository.
func (r *orgRepository) GetSiteByID(ctx context.Context, id string, tenantID string) (org.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, department_id, created_at, updated_at
		FROM sites
		WHERE id = $1
		  AND tenant_id = $2
	`

	var s org.Site
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&s.ID, &s.TenantID, &s.Name, &s.ManagerID, &s.DepartmentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return org.Site{}, org.ErrSiteNotFound
		}
		return org.Site{}, fmt.Errorf("failed to get site: %w", err)
	}

	return s, nil
}

// GetTeamByID implements org.Repository.
func (r *orgRepository) GetTeamByID(ctx context.Context, id string, tenantID string) (org.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, name, manager_id, created_at, updated_at
		FROM teams
		WHERE id = $1
		  AND tenant_id = $2
	`

	var t org.Team
	err := q.QueryRow(ctx, query, id, tenantID).Scan(&t.ID, &t.TenantID, &t.Name, &t.ManagerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return org.Team{}, org.ErrTeamNotFound
		}
		return org.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	return t, nil
}

// ListSiteManagersBySite implements org.Repository.
func (r *orgRepository) ListSiteManagersBySite(ctx context.Context, siteID string, tenantID string) ([]org.SiteManager, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, site_id, manager_id, department_id, created_at
		FROM site_managers
		WHERE site_id = $1
		  AND tenant_id = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, siteID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query site managers: %w", err)
	}
	defer rows.Close()

	return collectSiteManagers(rows)
}

func collectSiteManagers(rows pgx.Rows) ([]org.SiteManager, error) {
	var managers []org.SiteManager
	for rows.Next() {
		var m org.SiteManager
		if err := rows.Scan(&m.ID, &m.TenantID, &m.SiteID, &m.ManagerID, &m.DepartmentID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan site manager: %w", err)
		}
		managers = append(managers, m)
	}
	return managers, nil
}
