package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/config"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type AttendanceServiceImpl struct {
	tx        database.Transactor
	sessions  attendance.SessionRepository
	breaks    attendance.BreakRepository
	publisher attendance.SessionEventPublisher
	cfg       config.AttendanceConfig
	loc       *time.Location
	now       func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	sessions attendance.SessionRepository,
	breaks attendance.BreakRepository,
	publisher attendance.SessionEventPublisher,
	cfg config.AttendanceConfig,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:        tx,
		sessions:  sessions,
		breaks:    breaks,
		publisher: publisher,
		cfg:       cfg,
		loc:       loc,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// close stamps the session and announces it. A session already closed elsewhere is not an error.
func (s *AttendanceServiceImpl) close(ctx context.Context, session attendance.Session, at time.Time, reason string) (bool, error) {
	closed, err := s.sessions.CloseIfOpen(ctx, session.ID, at, reason)
	if err != nil || !closed {
		return false, err
	}

	event := attendance.SessionClosedEvent{
		SessionID:  session.ID,
		EmployeeID: session.EmployeeID,
		Reason:     reason,
		ClosedAt:   at,
	}
	if err := s.publisher.PublishSessionClosed(ctx, event); err != nil {
		slog.Warn("failed to publish session closed event", "session_id", session.ID, "error", err)
	}
	return true, nil
}

// StartSession closes whatever the employee left open, ends the running break and opens a fresh session.
func (s *AttendanceServiceImpl) StartSession(ctx context.Context, employeeID string) (attendance.SessionResponse, error) {
	now := s.now()
	var created attendance.Session

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		open, err := s.sessions.ListOpenByEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		for _, session := range open {
			if _, err := s.close(ctx, session, now, attendance.ReasonLoginOverride); err != nil {
				return err
			}
		}

		brk, err := s.breaks.GetLatestOpen(ctx, employeeID)
		switch {
		case err == nil:
			if _, err := s.breaks.EndIfOpen(ctx, brk.ID, now, true); err != nil {
				return err
			}
		case !errors.Is(err, attendance.ErrBreakNotFound):
			return err
		}

		expiresAt := now.Add(s.cfg.SessionLifetime)
		created, err = s.sessions.Create(ctx, attendance.Session{
			EmployeeID: employeeID,
			LoginTime:  now,
			Status:     attendance.SessionStatusActive,
			ExpiresAt:  &expiresAt,
		})
		return err
	})
	if err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to start attendance session: %w", err)
	}

	return attendance.NewSessionResponse(created), nil
}

// EndSession closes the newest open session and starts an unapproved break.
func (s *AttendanceServiceImpl) EndSession(ctx context.Context, employeeID string, req attendance.LogoutRequest) (attendance.SessionResponse, error) {
	now := s.now()
	var ended attendance.Session

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetLatestOpen(ctx, employeeID)
		if err != nil {
			return err
		}

		reason := req.SessionReason()
		closed, err := s.close(ctx, session, now, reason)
		if err != nil {
			return err
		}
		if !closed {
			return attendance.ErrNoOpenSession
		}

		_, err = s.breaks.Create(ctx, attendance.BreakSession{
			EmployeeID: employeeID,
			StartTime:  now,
			Reason:     req.BreakReason(),
		})
		if err != nil {
			return err
		}

		ended = session
		ended.LogoutTime = &now
		ended.LogoutReason = reason
		ended.Closed = true
		ended.Status = attendance.SessionStatusEnded
		return nil
	})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	return attendance.NewSessionResponse(ended), nil
}

func (s *AttendanceServiceImpl) Ping(ctx context.Context, employeeID string) (attendance.PingResponse, error) {
	session, err := s.sessions.GetLatestOpen(ctx, employeeID)
	if err != nil {
		return attendance.PingResponse{}, err
	}

	now := s.now()
	if err := s.sessions.UpdatePing(ctx, session.ID, now); err != nil {
		return attendance.PingResponse{}, err
	}

	return attendance.PingResponse{
		SessionID: session.ID,
		LastPing:  now.Format(time.RFC3339),
	}, nil
}

// Refresh pushes the session expiry one lifetime past now.
func (s *AttendanceServiceImpl) Refresh(ctx context.Context, employeeID string) (attendance.SessionResponse, error) {
	session, err := s.sessions.GetLatestOpen(ctx, employeeID)
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.SessionLifetime)
	if err := s.sessions.Refresh(ctx, session.ID, now, expiresAt); err != nil {
		return attendance.SessionResponse{}, err
	}

	session.RefreshedAt = &now
	session.ExpiresAt = &expiresAt
	session.Status = attendance.SessionStatusRefreshed
	return attendance.NewSessionResponse(session), nil
}

// EnforceSingleSession keeps only the newest open session. The caller's session must be that one.
func (s *AttendanceServiceImpl) EnforceSingleSession(ctx context.Context, employeeID string, currentSessionID string) (attendance.SessionGuardResult, error) {
	open, err := s.sessions.ListOpenByEmployee(ctx, employeeID)
	if err != nil {
		return attendance.SessionGuardResult{}, err
	}
	if len(open) == 0 {
		return attendance.SessionGuardResult{}, attendance.ErrSessionInvalidated
	}

	result := attendance.SessionGuardResult{ActiveSessionID: open[0].ID}
	now := s.now()
	for _, session := range open[1:] {
		closed, err := s.close(ctx, session, now, attendance.ReasonMultipleSessions)
		if err != nil {
			return result, err
		}
		if closed {
			slog.Info("closed duplicate attendance session", "employee_id", employeeID, "session_id", session.ID)
			result.ClosedSessions = append(result.ClosedSessions, session.ID)
		}
	}

	if currentSessionID != "" && currentSessionID != result.ActiveSessionID {
		return result, attendance.ErrSessionInvalidated
	}
	return result, nil
}

// CloseStaleSessions closes every open session that went quiet for longer than the stale threshold.
// A failed close is logged and skipped so one bad row never blocks the rest of the sweep.
func (s *AttendanceServiceImpl) CloseStaleSessions(ctx context.Context) (attendance.SweepResult, error) {
	if s.cfg.StaleThreshold <= 0 {
		return attendance.SweepResult{}, attendance.ErrInvalidStaleCutoff
	}

	now := s.now()
	cutoff := now.Add(-s.cfg.StaleThreshold)

	stale, err := s.sessions.ListStale(ctx, cutoff)
	if err != nil {
		return attendance.SweepResult{}, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	result := attendance.SweepResult{Scanned: len(stale)}
	for _, session := range stale {
		closed, err := s.close(ctx, session, now, attendance.ReasonStaleSession)
		if err != nil {
			result.Failed++
			slog.Error("failed to close stale session",
				"session_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err,
			)
			continue
		}
		if closed {
			result.Closed++
		}
	}

	slog.Info("stale session sweep finished",
		"closed", result.Closed,
		"failed", result.Failed,
		"scanned", result.Scanned,
		"cutoff", cutoff.Format(time.RFC3339),
	)
	return result, nil
}

func (s *AttendanceServiceImpl) ListBreaks(ctx context.Context, filter attendance.BreakFilter) ([]attendance.BreakResponse, error) {
	if err := filter.Validate(s.loc); err != nil {
		return nil, err
	}

	breaks, err := s.breaks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.BreakResponse, 0, len(breaks))
	for _, b := range breaks {
		resp = append(resp, attendance.NewBreakResponse(b))
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) ApproveBreaks(ctx context.Context, req attendance.ApproveBreaksRequest) (attendance.ApproveBreaksResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ApproveBreaksResponse{}, err
	}

	approved, err := s.breaks.Approve(ctx, req.IDs)
	if err != nil {
		return attendance.ApproveBreaksResponse{}, err
	}

	slog.Info("approved break sessions", "requested", len(req.IDs), "approved", approved)
	return attendance.ApproveBreaksResponse{Approved: approved}, nil
}
