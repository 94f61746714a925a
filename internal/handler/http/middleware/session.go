package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/handler/http/response"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
)

// SessionGuard admits only employee tokens whose attendance session is still the
// employee's newest open one. Older duplicates are closed by the attendance service;
// a token bound to a closed session is revoked and answered with 401.
func SessionGuard(attendanceService attendance.AttendanceService, jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			employeeID := EmployeeID(r)
			sessionID := SessionID(r)
			if employeeID == "" || sessionID == "" {
				response.Forbidden(w, "Employee token required")
				return
			}

			_, err := attendanceService.EnforceSingleSession(r.Context(), employeeID, sessionID)
			if err != nil {
				if errors.Is(err, attendance.ErrSessionInvalidated) {
					token, _, _ := jwtauth.FromContext(r.Context())
					if token != nil {
						if rerr := jwtService.RevokeToken(r.Context(), jwtauth.TokenFromHeader(r), token.Expiration()); rerr != nil {
							slog.Warn("failed to revoke invalidated token", "employee_id", employeeID, "error", rerr)
						}
					}
				}
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
