package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `
	id, employee_id, login_time, logout_time, last_ping, COALESCE(logout_reason, ''),
	session_closed, session_status, session_expires_at, refreshed_at, created_at`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var s attendance.Session
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.LoginTime, &s.LogoutTime, &s.LastPing, &s.LogoutReason,
		&s.Closed, &s.Status, &s.ExpiresAt, &s.RefreshedAt, &s.CreatedAt,
	)
	return s, err
}

func collectSessions(rows pgx.Rows) ([]attendance.Session, error) {
	defer rows.Close()
	sessions := []attendance.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance sessions: %w", err)
	}
	return sessions, nil
}

// Create implements attendance.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, session attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to generate session id: %w", err)
	}
	session.ID = id
	if session.Status == "" {
		session.Status = attendance.SessionStatusActive
	}

	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, login_time, last_ping, session_status, session_expires_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		session.ID,
		session.EmployeeID,
		session.LoginTime,
		session.LastPing,
		session.Status,
		session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}

	return session, nil
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSession(q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM attendance_sessions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session %s: %w", id, err)
	}
	return s, nil
}

// GetLatestOpen implements attendance.SessionRepository.
func (r *sessionRepository) GetLatestOpen(ctx context.Context, employeeID string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1 AND logout_time IS NULL
		ORDER BY login_time DESC
		LIMIT 1`

	s, err := scanSession(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrNoOpenSession
		}
		return attendance.Session{}, fmt.Errorf("failed to get open session: %w", err)
	}
	return s, nil
}

// ListOpenByEmployee implements attendance.SessionRepository.
func (r *sessionRepository) ListOpenByEmployee(ctx context.Context, employeeID string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1 AND logout_time IS NULL
		ORDER BY login_time DESC, id DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	return collectSessions(rows)
}

// ListByEmployeeBetween implements attendance.SessionRepository.
func (r *sessionRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE employee_id = $1 AND login_time >= $2 AND login_time < $3
		ORDER BY login_time ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	return collectSessions(rows)
}

// ListStale implements attendance.SessionRepository.
func (r *sessionRepository) ListStale(ctx context.Context, cutoff time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE logout_time IS NULL
		  AND COALESCE(last_ping, login_time) < $1
		ORDER BY login_time ASC`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	return collectSessions(rows)
}

// CloseIfOpen implements attendance.SessionRepository.
func (r *sessionRepository) CloseIfOpen(ctx context.Context, id string, closedAt time.Time, reason string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET logout_time = $2, logout_reason = $3, session_closed = TRUE, session_status = $4
		WHERE id = $1 AND logout_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, closedAt, reason, attendance.SessionStatusEnded)
	if err != nil {
		return false, fmt.Errorf("failed to close attendance session %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePing implements attendance.SessionRepository.
func (r *sessionRepository) UpdatePing(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_sessions SET last_ping = $2 WHERE id = $1 AND logout_time IS NULL`,
		id, at)
	if err != nil {
		return fmt.Errorf("failed to update ping for session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenSession
	}
	return nil
}

// Refresh implements attendance.SessionRepository.
func (r *sessionRepository) Refresh(ctx context.Context, id string, at time.Time, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET refreshed_at = $2, session_expires_at = $3, session_status = $4, last_ping = $2
		WHERE id = $1 AND logout_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at, expiresAt, attendance.SessionStatusRefreshed)
	if err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoOpenSession
	}
	return nil
}

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

const breakColumns = `
	b.id, b.employee_id, b.start_time, b.end_time, b.approved, COALESCE(b.reason, ''),
	b.ended_by_login, b.created_at, e.name`

func scanBreak(row pgx.Row) (attendance.BreakSession, error) {
	var b attendance.BreakSession
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.StartTime, &b.EndTime, &b.Approved, &b.Reason,
		&b.EndedByLogin, &b.CreatedAt, &b.EmployeeName,
	)
	return b, err
}

func collectBreaks(rows pgx.Rows) ([]attendance.BreakSession, error) {
	defer rows.Close()
	breaks := []attendance.BreakSession{}
	for rows.Next() {
		b, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break session: %w", err)
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate break sessions: %w", err)
	}
	return breaks, nil
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, b attendance.BreakSession) (attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return attendance.BreakSession{}, fmt.Errorf("failed to generate break id: %w", err)
	}
	b.ID = id

	var reason *string
	if b.Reason != "" {
		reason = &b.Reason
	}

	err = q.QueryRow(ctx, `
		INSERT INTO break_sessions (id, employee_id, start_time, approved, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		b.ID, b.EmployeeID, b.StartTime, b.Approved, reason,
	).Scan(&b.CreatedAt)
	if err != nil {
		return attendance.BreakSession{}, fmt.Errorf("failed to create break session: %w", err)
	}
	return b, nil
}

// GetLatestOpen implements attendance.BreakRepository.
func (r *breakRepository) GetLatestOpen(ctx context.Context, employeeID string) (attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + `
		FROM break_sessions b
		JOIN employees e ON e.id = b.employee_id
		WHERE b.employee_id = $1 AND b.end_time IS NULL
		ORDER BY b.start_time DESC
		LIMIT 1`

	b, err := scanBreak(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.BreakSession{}, attendance.ErrBreakNotFound
		}
		return attendance.BreakSession{}, fmt.Errorf("failed to get open break: %w", err)
	}
	return b, nil
}

// EndIfOpen implements attendance.BreakRepository.
func (r *breakRepository) EndIfOpen(ctx context.Context, id string, at time.Time, endedByLogin bool) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE break_sessions SET end_time = $2, ended_by_login = $3 WHERE id = $1 AND end_time IS NULL`,
		id, at, endedByLogin)
	if err != nil {
		return false, fmt.Errorf("failed to end break session %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListOverlapping implements attendance.BreakRepository.
func (r *breakRepository) ListOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + breakColumns + `
		FROM break_sessions b
		JOIN employees e ON e.id = b.employee_id
		WHERE b.employee_id = $1
		  AND b.start_time < $3
		  AND (b.end_time IS NULL OR b.end_time > $2)
		ORDER BY b.start_time ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list break sessions: %w", err)
	}
	return collectBreaks(rows)
}

// List implements attendance.BreakRepository.
func (r *breakRepository) List(ctx context.Context, filter attendance.BreakFilter) ([]attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("b.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Approved != nil {
		conditions = append(conditions, fmt.Sprintf("b.approved = $%d", argIdx))
		args = append(args, *filter.Approved)
		argIdx++
	}
	if filter.FromTime != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_time >= $%d", argIdx))
		args = append(args, *filter.FromTime)
		argIdx++
	}
	if filter.ToTime != nil {
		conditions = append(conditions, fmt.Sprintf("b.start_time < $%d", argIdx))
		args = append(args, *filter.ToTime)
		argIdx++
	}

	query := fmt.Sprintf(`SELECT %s
		FROM break_sessions b
		JOIN employees e ON e.id = b.employee_id
		WHERE %s
		ORDER BY b.start_time DESC
		LIMIT $%d`, breakColumns, strings.Join(conditions, " AND "), argIdx)
	args = append(args, filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list break sessions: %w", err)
	}
	return collectBreaks(rows)
}

// Approve implements attendance.BreakRepository.
func (r *breakRepository) Approve(ctx context.Context, ids []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE break_sessions SET approved = TRUE WHERE id = ANY($1) AND approved = FALSE`,
		ids)
	if err != nil {
		return 0, fmt.Errorf("failed to approve break sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
