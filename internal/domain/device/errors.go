package device

import "errors"

// Device domain errors
var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrDeviceInactive = errors.New("device is inactive")
	ErrInvalidAPIKey  = errors.New("invalid device api key")
)
