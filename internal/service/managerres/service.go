// Package managerres resolves manager authority in both directions: a user
// down to the employee population they may act on, and an employee up to the
// managers who get notified about them. Both directions share the same
// precedence so access control and notification recipients never disagree.
package managerres

import (
	"context"
	"errors"
	"fmt"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/org"
)

type Service interface {
	// ResolveLevel maps a user to their manager level. Precedence:
	// department, then the site-manager join table, then the legacy site
	// manager column, then team, else none. First match wins.
	ResolveLevel(ctx context.Context, userID string, tenantID string) (org.ManagerLevel, error)

	// ManagedEmployeeIDs expands a level into the concrete employee ids the
	// manager may see. An underivable scope yields an empty set, not an
	// error.
	ManagedEmployeeIDs(ctx context.Context, level org.ManagerLevel, tenantID string) ([]string, error)

	// ManagersFor resolves an employee upward to their distinct managers,
	// ordered by the same precedence.
	ManagersFor(ctx context.Context, employeeID string, tenantID string) ([]employee.Employee, error)
}

type ServiceImpl struct {
	org.Repository
	employeeRepo employee.Repository
}

func NewService(orgRepo org.Repository, employeeRepo employee.Repository) Service {
	return &ServiceImpl{
		Repository:   orgRepo,
		employeeRepo: employeeRepo,
	}
}

// ResolveLevel implements Service. The legacy Site.managerID column and the
// SiteManager join table are two strategies for the same SITE answer; the
// join table is authoritative when both hold rows.
func (s *ServiceImpl) ResolveLevel(ctx context.Context, userID string, tenantID string) (org.ManagerLevel, error) {
	emp, err := s.employeeRepo.GetByUserID(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return org.NoLevel(), nil
		}
		return org.NoLevel(), fmt.Errorf("failed to resolve user to employee: %w", err)
	}

	departments, err := s.ListDepartmentsByManager(ctx, emp.ID, tenantID)
	if err != nil {
		return org.NoLevel(), fmt.Errorf("failed to list managed departments: %w", err)
	}
	if len(departments) > 0 {
		// Data model allows at most one in practice; tolerate multiples by
		// taking the first.
		return org.ManagerLevel{
			Kind:         org.LevelDepartment,
			DepartmentID: departments[0].ID,
		}, nil
	}

	scopes, err := s.ListSiteScopesByManager(ctx, emp.ID, tenantID)
	if err != nil {
		return org.NoLevel(), fmt.Errorf("failed to list site manager scopes: %w", err)
	}
	if len(scopes) > 0 {
		level := org.ManagerLevel{
			Kind:             org.LevelSite,
			SiteDepartmentID: scopes[0].DepartmentID,
		}
		for _, sc := range scopes {
			level.SiteIDs = append(level.SiteIDs, sc.SiteID)
		}
		return level, nil
	}

	legacySites, err := s.ListSitesByLegacyManager(ctx, emp.ID, tenantID)
	if err != nil {
		return org.NoLevel(), fmt.Errorf("failed to list legacy managed sites: %w", err)
	}
	if len(legacySites) > 0 {
		level := org.ManagerLevel{
			Kind:             org.LevelSite,
			SiteDepartmentID: legacySites[0].DepartmentID,
		}
		for _, site := range legacySites {
			level.SiteIDs = append(level.SiteIDs, site.ID)
		}
		return level, nil
	}

	teams, err := s.ListTeamsByManager(ctx, emp.ID, tenantID)
	if err != nil {
		return org.NoLevel(), fmt.Errorf("failed to list managed teams: %w", err)
	}
	if len(teams) > 0 {
		return org.ManagerLevel{
			Kind:   org.LevelTeam,
			TeamID: teams[0].ID,
		}, nil
	}

	return org.NoLevel(), nil
}

// ManagedEmployeeIDs implements Service.
func (s *ServiceImpl) ManagedEmployeeIDs(ctx context.Context, level org.ManagerLevel, tenantID string) ([]string, error) {
	switch level.Kind {
	case org.LevelDepartment:
		return s.employeeRepo.ListIDsByDepartments(ctx, []string{level.DepartmentID}, tenantID)

	case org.LevelSite:
		departmentID := level.SiteDepartmentID
		if departmentID == nil && len(level.SiteIDs) > 0 {
			// Derive the restriction from the first site's own department.
			site, err := s.GetSiteByID(ctx, level.SiteIDs[0], tenantID)
			if err != nil {
				return nil, fmt.Errorf("failed to derive site department: %w", err)
			}
			departmentID = site.DepartmentID
		}
		if departmentID == nil {
			// No derivable department means no visible scope.
			return nil, nil
		}
		var ids []string
		for _, siteID := range level.SiteIDs {
			siteIDs, err := s.employeeRepo.ListIDsBySite(ctx, siteID, departmentID, tenantID)
			if err != nil {
				return nil, fmt.Errorf("failed to list site employees: %w", err)
			}
			ids = append(ids, siteIDs...)
		}
		return dedup(ids), nil

	case org.LevelTeam:
		return s.employeeRepo.ListIDsByTeams(ctx, []string{level.TeamID}, tenantID)

	default:
		return nil, nil
	}
}

// ManagersFor implements Service: department manager first, else the site's
// managers (join table rows, then the legacy column), else the team manager.
func (s *ServiceImpl) ManagersFor(ctx context.Context, employeeID string, tenantID string) ([]employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}

	var managerIDs []string

	if emp.DepartmentID != nil {
		dept, err := s.GetDepartmentByID(ctx, *emp.DepartmentID, tenantID)
		if err != nil && !errors.Is(err, org.ErrDepartmentNotFound) {
			return nil, fmt.Errorf("failed to load department: %w", err)
		}
		if err == nil && dept.ManagerID != nil {
			managerIDs = append(managerIDs, *dept.ManagerID)
		}
	}

	if len(managerIDs) == 0 && emp.SiteID != nil {
		rows, err := s.ListSiteManagersBySite(ctx, *emp.SiteID, tenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to list site managers: %w", err)
		}
		for _, row := range rows {
			if row.DepartmentID != nil && emp.DepartmentID != nil && *row.DepartmentID != *emp.DepartmentID {
				continue
			}
			managerIDs = append(managerIDs, row.ManagerID)
		}
		if len(managerIDs) == 0 {
			site, err := s.GetSiteByID(ctx, *emp.SiteID, tenantID)
			if err != nil && !errors.Is(err, org.ErrSiteNotFound) {
				return nil, fmt.Errorf("failed to load site: %w", err)
			}
			if err == nil && site.ManagerID != nil {
				managerIDs = append(managerIDs, *site.ManagerID)
			}
		}
	}

	if len(managerIDs) == 0 && emp.TeamID != nil {
		team, err := s.GetTeamByID(ctx, *emp.TeamID, tenantID)
		if err != nil && !errors.Is(err, org.ErrTeamNotFound) {
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
		if err == nil && team.ManagerID != nil {
			managerIDs = append(managerIDs, *team.ManagerID)
		}
	}

	managerIDs = dedup(managerIDs)
	if len(managerIDs) == 0 {
		return nil, nil
	}

	managers, err := s.employeeRepo.ListActiveByIDs(ctx, managerIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load manager employees: %w", err)
	}

	// Preserve precedence order over the repository's result order.
	byID := make(map[string]employee.Employee, len(managers))
	for _, m := range managers {
		byID[m.ID] = m
	}
	ordered := make([]employee.Employee, 0, len(managers))
	for _, id := range managerIDs {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
