package schedule

import "errors"

// Schedule domain errors
var (
	ErrScheduleNotFound = errors.New("no schedule found for this date")
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidWallClock = errors.New("invalid wall clock time, expected HH:MM")
)
