package attendance

import (
	"strings"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

type LogoutRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BreakReason derives the reason recorded on the break opened by a logout.
func (r LogoutRequest) BreakReason() string {
	if strings.Contains(strings.ToLower(r.Reason), "idle") || strings.Contains(strings.ToLower(r.Reason), "inactive") {
		return ReasonInactiveBreak
	}
	return ""
}

// SessionReason falls back to a manual logout when no reason was given.
func (r LogoutRequest) SessionReason() string {
	if reason := strings.TrimSpace(r.Reason); reason != "" {
		return reason
	}
	return ReasonManualLogout
}

type SessionResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	LoginTime    string  `json:"login_time"`
	LogoutTime   *string `json:"logout_time,omitempty"`
	LastPing     *string `json:"last_ping,omitempty"`
	LogoutReason string  `json:"logout_reason,omitempty"`
	Status       string  `json:"status"`
	ExpiresAt    *string `json:"expires_at,omitempty"`
}

func NewSessionResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		LoginTime:    s.LoginTime.Format(time.RFC3339),
		LogoutTime:   formatOptional(s.LogoutTime),
		LastPing:     formatOptional(s.LastPing),
		LogoutReason: s.LogoutReason,
		Status:       string(s.Status),
		ExpiresAt:    formatOptional(s.ExpiresAt),
	}
	return resp
}

type PingResponse struct {
	SessionID string `json:"session_id"`
	LastPing  string `json:"last_ping"`
}

// SessionGuardResult describes what the single-session guard did.
type SessionGuardResult struct {
	ActiveSessionID string   `json:"active_session_id"`
	ClosedSessions  []string `json:"closed_sessions,omitempty"`
}

type SweepResult struct {
	Closed  int `json:"closed"`
	Failed  int `json:"failed"`
	Scanned int `json:"scanned"`
}

type BreakFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Approved   *bool   `json:"approved,omitempty"`
	Month      *string `json:"month,omitempty"` // YYYY-MM, overrides from/to
	From       *string `json:"from,omitempty"`  // YYYY-MM-DD
	To         *string `json:"to,omitempty"`    // YYYY-MM-DD
	Limit      int     `json:"limit"`

	FromTime *time.Time `json:"-"`
	ToTime   *time.Time `json:"-"`
}

func (f *BreakFilter) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if f.From != nil {
		d, ok := parseDateIn(*f.From, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		} else {
			f.FromTime = &d
		}
	}
	if f.To != nil {
		d, ok := parseDateIn(*f.To, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		} else {
			end := d.AddDate(0, 0, 1)
			f.ToTime = &end
		}
	}
	if f.Month != nil {
		from, to, ok := validator.MonthRange(*f.Month, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be in YYYY-MM format"})
		} else {
			f.FromTime, f.ToTime = &from, &to
		}
	}
	if f.FromTime != nil && f.ToTime != nil && !f.FromTime.Before(*f.ToTime) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}
	if f.Limit <= 0 {
		f.Limit = defaultSessionPageLimit
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 500"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	StartTime    string  `json:"start_time"`
	EndTime      *string `json:"end_time,omitempty"`
	DurationSecs *int64  `json:"duration_seconds,omitempty"`
	Approved     bool    `json:"approved"`
	Reason       string  `json:"reason,omitempty"`
	EndedByLogin bool    `json:"ended_by_login"`
}

func NewBreakResponse(b BreakSession) BreakResponse {
	resp := BreakResponse{
		ID:           b.ID,
		EmployeeID:   b.EmployeeID,
		EmployeeName: b.EmployeeName,
		StartTime:    b.StartTime.Format(time.RFC3339),
		EndTime:      formatOptional(b.EndTime),
		Approved:     b.Approved,
		Reason:       b.Reason,
		EndedByLogin: b.EndedByLogin,
	}
	if b.EndTime != nil {
		secs := int64(b.EndTime.Sub(b.StartTime).Seconds())
		resp.DurationSecs = &secs
	}
	return resp
}

type ApproveBreaksRequest struct {
	IDs []string `json:"ids"`
}

func (r *ApproveBreaksRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.IDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "ids", Message: ErrNoBreaksSelected.Error()})
	}
	for _, id := range r.IDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "ids", Message: "ids must contain valid UUIDs"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveBreaksResponse struct {
	Approved int64 `json:"approved"`
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func parseDateIn(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	return d, err == nil
}
