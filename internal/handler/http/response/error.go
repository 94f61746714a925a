package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/commission"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/payroll"
	"github.com/onlinehub/workforce-backend-go/internal/domain/user"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidAdminLogin),
		errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountLocked),
		errors.Is(err, employee.ErrEmployeeLocked):
		Forbidden(w, "Account is locked")

	// Attendance
	case errors.Is(err, attendance.ErrSessionInvalidated):
		Unauthorized(w, "Session has been closed, please log in again")
	case errors.Is(err, attendance.ErrNoOpenSession):
		Conflict(w, "No open attendance session")
	case errors.Is(err, attendance.ErrSessionNotFound),
		errors.Is(err, attendance.ErrBreakNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrNoBreaksSelected),
		errors.Is(err, attendance.ErrInvalidStaleCutoff):
		BadRequest(w, err.Error(), nil)

	// Employees and departments
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, commission.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, employee.ErrMobileNumberExists):
		Conflict(w, "Mobile number already registered")
	case errors.Is(err, employee.ErrDepartmentNameExists):
		Conflict(w, "Department name already exists")
	case errors.Is(err, employee.ErrInvalidWorkingSchedule):
		BadRequest(w, err.Error(), nil)

	// Commission
	case errors.Is(err, commission.ErrWorksheetNotFound),
		errors.Is(err, commission.ErrServiceTypeNotFound),
		errors.Is(err, commission.ErrApplicationNotFound),
		errors.Is(err, commission.ErrMeetingNotFound),
		errors.Is(err, commission.ErrPartnerNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, commission.ErrWorksheetApproved),
		errors.Is(err, commission.ErrServiceTypeNameExists):
		Conflict(w, err.Error())
	case errors.Is(err, commission.ErrWorksheetNotOwned):
		Forbidden(w, err.Error())
	case errors.Is(err, commission.ErrInvalidPercentages),
		errors.Is(err, commission.ErrPartnerRequired),
		errors.Is(err, commission.ErrPartnerIsSelf),
		errors.Is(err, commission.ErrNothingToApprove):
		BadRequest(w, err.Error(), nil)

	// Payroll
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Admin users
	case errors.Is(err, user.ErrAdminNotFound):
		NotFound(w, "Admin user not found")
	case errors.Is(err, user.ErrAdminUsernameTaken):
		Conflict(w, "Admin username already exists")

	// IP access
	case errors.Is(err, access.ErrAccessDenied),
		errors.Is(err, access.ErrInvalidClientAddr):
		Forbidden(w, err.Error())
	case errors.Is(err, access.ErrAllowedIPNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, access.ErrAllowedIPExists):
		Conflict(w, err.Error())
	case errors.Is(err, access.ErrInvalidMode):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
