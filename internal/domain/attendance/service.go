package attendance

import "context"

type AttendanceService interface {
	StartSession(ctx context.Context, employeeID string) (SessionResponse, error)
	EndSession(ctx context.Context, employeeID string, req LogoutRequest) (SessionResponse, error)
	Ping(ctx context.Context, employeeID string) (PingResponse, error)
	Refresh(ctx context.Context, employeeID string) (SessionResponse, error)
	EnforceSingleSession(ctx context.Context, employeeID string, currentSessionID string) (SessionGuardResult, error)
	CloseStaleSessions(ctx context.Context) (SweepResult, error)

	ListBreaks(ctx context.Context, filter BreakFilter) ([]BreakResponse, error)
	ApproveBreaks(ctx context.Context, req ApproveBreaksRequest) (ApproveBreaksResponse, error)
}
