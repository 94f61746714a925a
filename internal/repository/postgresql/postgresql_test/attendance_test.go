package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_StaleAndClose(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewSessionRepository(db)
	emp := createEmployee(t, db, "9000000001")

	now := time.Now().UTC().Truncate(time.Second)
	stalePing := now.Add(-20 * time.Minute)
	freshPing := now.Add(-5 * time.Minute)

	stale, err := repo.Create(ctx, attendance.Session{EmployeeID: emp.ID, LoginTime: now.Add(-time.Hour), LastPing: &stalePing})
	require.NoError(t, err)
	fresh, err := repo.Create(ctx, attendance.Session{EmployeeID: emp.ID, LoginTime: now.Add(-30 * time.Minute), LastPing: &freshPing})
	require.NoError(t, err)

	found, err := repo.ListStale(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, stale.ID, found[0].ID)

	closed, err := repo.CloseIfOpen(ctx, stale.ID, now, attendance.ReasonStaleSession)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = repo.CloseIfOpen(ctx, stale.ID, now.Add(time.Minute), attendance.ReasonStaleSession)
	require.NoError(t, err)
	assert.False(t, closed, "second close must not overwrite the first")

	got, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LogoutTime)
	assert.True(t, got.LogoutTime.Equal(now))
	assert.Equal(t, attendance.ReasonStaleSession, got.LogoutReason)
	assert.True(t, got.Closed)

	open, err := repo.ListOpenByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, fresh.ID, open[0].ID)
}

func TestBreakRepository_EndAndApprove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewBreakRepository(db)
	emp := createEmployee(t, db, "9000000002")

	start := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	b, err := repo.Create(ctx, attendance.BreakSession{EmployeeID: emp.ID, StartTime: start, Reason: attendance.ReasonManualLogout})
	require.NoError(t, err)
	assert.False(t, b.Approved)

	latest, err := repo.GetLatestOpen(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, latest.ID)

	ended, err := repo.EndIfOpen(ctx, b.ID, start.Add(30*time.Minute), true)
	require.NoError(t, err)
	assert.True(t, ended)

	_, err = repo.GetLatestOpen(ctx, emp.ID)
	assert.ErrorIs(t, err, attendance.ErrBreakNotFound)

	n, err := repo.Approve(ctx, []string{b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	overlapping, err := repo.ListOverlapping(ctx, emp.ID, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.True(t, overlapping[0].Approved)
	assert.True(t, overlapping[0].EndedByLogin)
}
