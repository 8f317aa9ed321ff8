package punch

import "errors"

// Punch domain errors
var (
	ErrPunchNotFound     = errors.New("punch event not found")
	ErrInvalidKind       = errors.New("invalid punch kind")
	ErrInvalidMethod     = errors.New("invalid punch method")
	ErrDuplicateEvent    = errors.New("punch event already recorded")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrUnauthorized      = errors.New("unauthorized to access this punch event")
	ErrCorrectionPending = errors.New("punch event has an unapproved correction")
)
