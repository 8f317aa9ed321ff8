package anomaly

import "errors"

// Anomaly domain errors
var (
	ErrAnomalyNotFound = errors.New("anomaly not found")
	ErrInvalidType     = errors.New("invalid anomaly type")
	ErrUnauthorized    = errors.New("unauthorized to access this anomaly")
)
