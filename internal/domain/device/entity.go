package device

import "time"

// Device is a registered punch capture endpoint (badge reader, biometric
// terminal, kiosk). Webhook calls authenticate with the device API key, not
// a user JWT; the device binds the call to its tenant.
type Device struct {
	ID         string
	TenantID   string
	Name       string
	APIKeyHash string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
