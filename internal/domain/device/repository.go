package device

import "context"

type Repository interface {
	// GetByID retrieves a device by ID across tenants; the device row itself
	// carries the tenant binding
	GetByID(ctx context.Context, id string) (Device, error)
}
