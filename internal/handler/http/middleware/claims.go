package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

func claimString(r *http.Request, key string) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	v, _ := claims[key].(string)
	return v
}

// EmployeeID returns the employee_id claim of the verified token, or "".
func EmployeeID(r *http.Request) string {
	return claimString(r, "employee_id")
}

// SessionID returns the attendance_session_id claim of the verified token, or "".
func SessionID(r *http.Request) string {
	return claimString(r, "attendance_session_id")
}

func AdminID(r *http.Request) string {
	return claimString(r, "admin_id")
}
