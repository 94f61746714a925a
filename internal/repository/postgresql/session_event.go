package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type sessionEventPublisher struct {
	db *database.DB
}

// NewSessionEventPublisher publishes through pg_notify. Inside a transaction the
// notification is delivered on commit only.
func NewSessionEventPublisher(db *database.DB) attendance.SessionEventPublisher {
	return &sessionEventPublisher{db: db}
}

func (p *sessionEventPublisher) PublishSessionClosed(ctx context.Context, event attendance.SessionClosedEvent) error {
	q := GetQuerier(ctx, p.db)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode session event: %w", err)
	}
	if _, err := q.Exec(ctx, `SELECT pg_notify($1, $2)`, attendance.SessionClosedChannel, string(payload)); err != nil {
		return fmt.Errorf("failed to notify session event: %w", err)
	}
	return nil
}

// SessionEventListener holds a dedicated connection LISTENing for closed-session events.
type SessionEventListener struct {
	db           *database.DB
	retryBackoff time.Duration
}

func NewSessionEventListener(db *database.DB) *SessionEventListener {
	return &SessionEventListener{db: db, retryBackoff: 5 * time.Second}
}

// Run delivers events to handle until ctx is cancelled, reconnecting after connection loss.
func (l *SessionEventListener) Run(ctx context.Context, handle func(attendance.SessionClosedEvent)) {
	for {
		err := l.listen(ctx, handle)
		if ctx.Err() != nil {
			return
		}
		slog.Error("session event listener stopped, reconnecting", "error", err, "backoff", l.retryBackoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retryBackoff):
		}
	}
}

func (l *SessionEventListener) listen(ctx context.Context, handle func(attendance.SessionClosedEvent)) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+attendance.SessionClosedChannel); err != nil {
		return fmt.Errorf("listen %s: %w", attendance.SessionClosedChannel, err)
	}
	slog.Info("listening for session events", "channel", attendance.SessionClosedChannel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event attendance.SessionClosedEvent
		if err := json.Unmarshal([]byte(n.Payload), &event); err != nil {
			slog.Warn("dropping malformed session event", "payload", n.Payload, "error", err)
			continue
		}
		handle(event)
	}
}
