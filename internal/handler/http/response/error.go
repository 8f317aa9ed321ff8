package response

import (
	"errors"
	"net/http"

	"github.com/shiftly-hq/presence-backend-go/internal/domain/anomaly"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/device"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/employee"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/punch"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/schedule"
	"github.com/shiftly-hq/presence-backend-go/internal/domain/tenant"
	"github.com/shiftly-hq/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Punch domain errors
	case errors.Is(err, punch.ErrPunchNotFound):
		NotFound(w, "Punch event not found")
	case errors.Is(err, punch.ErrInvalidKind):
		BadRequest(w, "Invalid punch kind", nil)
	case errors.Is(err, punch.ErrInvalidMethod):
		BadRequest(w, "Invalid punch method", nil)
	case errors.Is(err, punch.ErrDuplicateEvent):
		Conflict(w, "Punch event already recorded")
	case errors.Is(err, punch.ErrCorrectionPending):
		Conflict(w, "A correction is already pending for this punch")
	case errors.Is(err, punch.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this punch")

	// Anomaly domain errors
	case errors.Is(err, anomaly.ErrAnomalyNotFound):
		NotFound(w, "Anomaly not found")
	case errors.Is(err, anomaly.ErrInvalidType):
		BadRequest(w, "Invalid anomaly type", nil)
	case errors.Is(err, anomaly.ErrUnauthorized):
		Forbidden(w, "Not allowed to access this anomaly")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		BadRequest(w, "Employee is not active", nil)

	// Tenant and schedule domain errors
	case errors.Is(err, tenant.ErrTenantNotFound):
		NotFound(w, "Tenant not found")
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Device domain errors
	case errors.Is(err, device.ErrDeviceNotFound), errors.Is(err, device.ErrInvalidAPIKey):
		Unauthorized(w, "Invalid device credentials")
	case errors.Is(err, device.ErrDeviceInactive):
		Forbidden(w, "Device is inactive")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
