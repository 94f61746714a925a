package attendance

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	GetLatestOpen(ctx context.Context, employeeID string) (Session, error)
	// ListOpenByEmployee returns open sessions newest first.
	ListOpenByEmployee(ctx context.Context, employeeID string) ([]Session, error)
	// ListByEmployeeBetween returns sessions whose login is in [from, to), oldest first.
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Session, error)
	// ListStale returns open sessions whose last ping, or login when never pinged, is before cutoff.
	ListStale(ctx context.Context, cutoff time.Time) ([]Session, error)
	// CloseIfOpen closes the session only if it is still open and reports whether it did.
	CloseIfOpen(ctx context.Context, id string, closedAt time.Time, reason string) (bool, error)
	UpdatePing(ctx context.Context, id string, at time.Time) error
	Refresh(ctx context.Context, id string, at time.Time, expiresAt time.Time) error
}

type BreakRepository interface {
	Create(ctx context.Context, b BreakSession) (BreakSession, error)
	GetLatestOpen(ctx context.Context, employeeID string) (BreakSession, error)
	// EndIfOpen ends the break only if it has no end time yet.
	EndIfOpen(ctx context.Context, id string, at time.Time, endedByLogin bool) (bool, error)
	// ListOverlapping returns breaks that start before to and end after from (or are still open), oldest first.
	ListOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]BreakSession, error)
	List(ctx context.Context, filter BreakFilter) ([]BreakSession, error)
	Approve(ctx context.Context, ids []string) (int64, error)
}

// SessionEventPublisher fans session events out to whoever holds the employee's event stream.
type SessionEventPublisher interface {
	PublishSessionClosed(ctx context.Context, event SessionClosedEvent) error
}
