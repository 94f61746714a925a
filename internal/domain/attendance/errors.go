package attendance

import "errors"

var (
	ErrSessionNotFound    = errors.New("attendance session not found")
	ErrNoOpenSession      = errors.New("no open attendance session")
	ErrSessionInvalidated = errors.New("attendance session has been closed")
	ErrBreakNotFound      = errors.New("break session not found")
	ErrNoBreaksSelected   = errors.New("no break sessions selected")
	ErrInvalidStaleCutoff = errors.New("stale threshold must be positive")
)
