package attendance

import "time"

type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusRefreshed SessionStatus = "refreshed"
	SessionStatusEnded     SessionStatus = "ended"
)

const (
	ReasonManualLogout      = "Manual Logout"
	ReasonLoginOverride     = "New Login Override (Logged in from another device)"
	ReasonMultipleSessions  = "Auto-logout: Multiple sessions detected"
	ReasonStaleSession      = "Auto-logout: Tab closed"
	ReasonInactiveBreak     = "Inactive - Auto Logout"
	EventSessionClosed      = "session_closed"
	SessionClosedChannel    = "attendance_session_closed"
	defaultSessionPageLimit = 50
)

// Session is one login-to-logout interval. LogoutTime nil means still open.
type Session struct {
	ID           string
	EmployeeID   string
	LoginTime    time.Time
	LogoutTime   *time.Time
	LastPing     *time.Time
	LogoutReason string
	Closed       bool
	Status       SessionStatus
	ExpiresAt    *time.Time
	RefreshedAt  *time.Time
	CreatedAt    time.Time
}

// IsOpen reports whether the session has not been logged out.
func (s Session) IsOpen() bool {
	return s.LogoutTime == nil
}

// LastActivity is the last ping, or the login when the session never pinged.
func (s Session) LastActivity() time.Time {
	if s.LastPing != nil {
		return *s.LastPing
	}
	return s.LoginTime
}

// BreakSession is a pause between a logout and the next login.
type BreakSession struct {
	ID           string
	EmployeeID   string
	StartTime    time.Time
	EndTime      *time.Time
	Approved     bool
	Reason       string
	EndedByLogin bool
	CreatedAt    time.Time

	// Joined fields
	EmployeeName *string
}

// Credited reports whether the break counts toward worked time.
func (b BreakSession) Credited() bool {
	return b.Approved && b.EndTime != nil
}

// SessionClosedEvent is published whenever a session is closed by the system rather than the employee.
type SessionClosedEvent struct {
	SessionID  string    `json:"session_id"`
	EmployeeID string    `json:"employee_id"`
	Reason     string    `json:"reason"`
	ClosedAt   time.Time `json:"closed_at"`
}
