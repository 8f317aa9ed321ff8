package org

import "context"

// Repository defines data access for the org structure. It exposes both site
// manager lookup strategies (join table and legacy column) so the manager
// resolver can merge them behind one capability.
type Repository interface {
	// ListDepartmentsByManager returns departments where the user is manager
	ListDepartmentsByManager(ctx context.Context, userID string, tenantID string) ([]Department, error)

	// ListSiteScopesByManager returns the SiteManager join rows for the user
	ListSiteScopesByManager(ctx context.Context, userID string, tenantID string) ([]SiteManager, error)

	// ListSitesByLegacyManager returns sites whose legacy manager column
	// names the user
	ListSitesByLegacyManager(ctx context.Context, userID string, tenantID string) ([]Site, error)

	// ListTeamsByManager returns teams where the user is manager
	ListTeamsByManager(ctx context.Context, userID string, tenantID string) ([]Team, error)

	// GetDepartmentByID retrieves a department
	GetDepartmentByID(ctx context.Context, id string, tenantID string) (Department, error)

	// GetSiteByID retrieves a site
	GetSiteByID(ctx context.Context, id string, tenantID string) (Site, error)

	// GetTeamByID retrieves a team
	GetTeamByID(ctx context.Context, id string, tenantID string) (Team, error)

	// ListSiteManagersBySite returns the join rows for one site
	ListSiteManagersBySite(ctx context.Context, siteID string, tenantID string) ([]SiteManager, error)
}
