package postgresql

import (
	"time"

	"github.com/google/uuid"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/validator"
)

// parseClock reads a TIME column selected as TO_CHAR(col, 'HH24:MI:SS').
func parseClock(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.ParseClockTime(*s)
	if !ok {
		return nil
	}
	return &t
}

func formatClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
