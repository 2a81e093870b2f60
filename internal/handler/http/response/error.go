package response

import (
	"errors"
	"net/http"

	"github.com/timewise-hq/timeclock-backend-go/internal/domain/auth"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/employee"
	"github.com/timewise-hq/timeclock-backend-go/internal/domain/timelog"
	"github.com/timewise-hq/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidAdminPassword):
		Unauthorized(w, "Invalid admin password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminOnly):
		Forbidden(w, "Admin privilege required")

	// Punch state machine errors
	case errors.Is(err, timelog.ErrAlreadyCheckedIn),
		errors.Is(err, timelog.ErrNotCheckedIn),
		errors.Is(err, timelog.ErrAlreadyCheckedOut),
		errors.Is(err, timelog.ErrOnBreak),
		errors.Is(err, timelog.ErrNotOnBreak),
		errors.Is(err, timelog.ErrOnSiteVisit),
		errors.Is(err, timelog.ErrNotOnSiteVisit),
		errors.Is(err, timelog.ErrUnknownAction):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrUsernameExists):
		Conflict(w, "Username already exists")
	case errors.Is(err, employee.ErrLastEmployee):
		BadRequest(w, "Cannot remove the last employee", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
