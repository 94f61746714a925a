package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
)

const revokedTokenPurgeInterval = time.Hour

// AttendanceJobs holds the background work of the worker process.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
	sweepInterval     time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, jwtService jwt.Service, sweepInterval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		jwtService:        jwtService,
		sweepInterval:     sweepInterval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_sessions", j.sweepInterval, j.CloseStaleSessions)
	scheduler.AddJob("purge_revoked_tokens", revokedTokenPurgeInterval, j.PurgeRevokedTokens)
}

func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	_, err := j.attendanceService.CloseStaleSessions(ctx)
	return err
}

func (j *AttendanceJobs) PurgeRevokedTokens(ctx context.Context) error {
	purged, err := j.jwtService.PurgeRevoked(ctx, time.Now())
	if err != nil {
		return err
	}
	if purged > 0 {
		slog.Info("Cron: Purged expired token revocations", "count", purged)
	}
	return nil
}
