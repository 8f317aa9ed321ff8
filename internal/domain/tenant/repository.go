package tenant

import "context"

// Repository defines data access for tenants and their settings.
type Repository interface {
	// GetByID retrieves a tenant
	GetByID(ctx context.Context, id string) (Tenant, error)

	// ListActive returns every active tenant. The reconciliation jobs
	// iterate this.
	ListActive(ctx context.Context) ([]Tenant, error)

	// GetSettings returns the tenant's settings, or DefaultSettings when no
	// row exists
	GetSettings(ctx context.Context, tenantID string) (Settings, error)
}
