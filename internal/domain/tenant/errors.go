package tenant

import "errors"

var (
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrTenantInactive  = errors.New("tenant is not active")
	ErrInvalidTimezone = errors.New("invalid tenant timezone")
)
