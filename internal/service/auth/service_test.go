package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/user"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret-key-for-jwt"
	employeeID = "0190a000-0000-7000-8000-000000000001"
)

type fakeEmployees struct {
	employee.EmployeeRepository
	emp employee.Employee
}

func (f *fakeEmployees) GetByMobileNumber(_ context.Context, mobile string) (employee.Employee, error) {
	if mobile != f.emp.MobileNumber {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return f.emp, nil
}

type fakeAdmins struct {
	admins []user.Admin
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (user.Admin, error) {
	for _, a := range f.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return user.Admin{}, user.ErrAdminNotFound
}

func (f *fakeAdmins) Create(_ context.Context, a user.Admin) (user.Admin, error) {
	a.ID = "admin-1"
	f.admins = append(f.admins, a)
	return a, nil
}

func (f *fakeAdmins) Count(context.Context) (int64, error) {
	return int64(len(f.admins)), nil
}

type fakeAttendance struct {
	attendance.AttendanceService
	started []string
	ended   []string
	endErr  error
}

func (f *fakeAttendance) StartSession(_ context.Context, id string) (attendance.SessionResponse, error) {
	f.started = append(f.started, id)
	return attendance.SessionResponse{ID: "sess-1", EmployeeID: id, Status: string(attendance.SessionStatusActive)}, nil
}

func (f *fakeAttendance) EndSession(_ context.Context, id string, req attendance.LogoutRequest) (attendance.SessionResponse, error) {
	f.ended = append(f.ended, id)
	if f.endErr != nil {
		return attendance.SessionResponse{}, f.endErr
	}
	return attendance.SessionResponse{ID: "sess-1", EmployeeID: id, LogoutReason: req.SessionReason()}, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestAuth(t *testing.T, emp employee.Employee) (*AuthServiceImpl, *fakeAttendance, jwt.Service) {
	att := &fakeAttendance{}
	jwtService := jwt.NewJWTService(testSecret, "1h", nil)
	svc := NewAuthService(&fakeEmployees{emp: emp}, &fakeAdmins{}, att, jwtService).(*AuthServiceImpl)
	return svc, att, jwtService
}

func TestLogin(t *testing.T) {
	emp := employee.Employee{ID: employeeID, MobileNumber: "9876543210", PasswordHash: hash(t, "password123")}

	t.Run("success binds token to new session", func(t *testing.T) {
		svc, att, jwtService := newTestAuth(t, emp)

		resp, err := svc.Login(context.Background(), auth.LoginRequest{MobileNumber: "9876543210", Password: "password123"})
		require.NoError(t, err)

		assert.Equal(t, "Bearer", resp.TokenType)
		assert.InDelta(t, 3600, resp.ExpiresIn, 5)
		require.NotNil(t, resp.Session)
		assert.Equal(t, []string{employeeID}, att.started)

		token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
		require.NoError(t, err)
		sid, _ := token.Get("attendance_session_id")
		assert.Equal(t, "sess-1", sid)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, att, _ := newTestAuth(t, emp)

		_, err := svc.Login(context.Background(), auth.LoginRequest{MobileNumber: "9876543210", Password: "nope"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Empty(t, att.started)
	})

	t.Run("unknown mobile number", func(t *testing.T) {
		svc, _, _ := newTestAuth(t, emp)

		_, err := svc.Login(context.Background(), auth.LoginRequest{MobileNumber: "9123456780", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("locked account starts no session", func(t *testing.T) {
		locked := emp
		locked.Locked = true
		svc, att, _ := newTestAuth(t, locked)

		_, err := svc.Login(context.Background(), auth.LoginRequest{MobileNumber: "9876543210", Password: "password123"})
		assert.ErrorIs(t, err, auth.ErrAccountLocked)
		assert.Empty(t, att.started)
	})
}

func TestLogout_RevokesToken(t *testing.T) {
	emp := employee.Employee{ID: employeeID, MobileNumber: "9876543210", PasswordHash: hash(t, "password123")}
	svc, att, jwtService := newTestAuth(t, emp)

	raw, _, err := jwtService.GenerateEmployeeToken(employeeID, "sess-1")
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), raw)
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := svc.Logout(ctx, raw, attendance.LogoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.ReasonManualLogout, resp.LogoutReason)
	assert.Equal(t, []string{employeeID}, att.ended)
	assert.True(t, jwtService.IsTokenRevoked(ctx, raw))

	t.Run("token is revoked even without an open session", func(t *testing.T) {
		att.endErr = attendance.ErrNoOpenSession
		raw2, _, err := jwtService.GenerateEmployeeToken(employeeID, "sess-2")
		require.NoError(t, err)

		_, err = svc.Logout(ctx, raw2, attendance.LogoutRequest{})
		assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
		assert.True(t, jwtService.IsTokenRevoked(ctx, raw2))
	})
}

func TestAdminLoginAndBootstrap(t *testing.T) {
	svc, _, jwtService := newTestAuth(t, employee.Employee{})
	ctx := context.Background()

	require.NoError(t, svc.BootstrapAdmin(ctx, "root", "s3cret-pass"))
	require.NoError(t, svc.BootstrapAdmin(ctx, "second", "other-pass"))

	count, err := svc.admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "bootstrap only runs on an empty table")

	resp, err := svc.AdminLogin(ctx, auth.AdminLoginRequest{Username: "root", Password: "s3cret-pass"})
	require.NoError(t, err)
	token, err := jwtauth.VerifyToken(jwtService.JWTAuth(), resp.AccessToken)
	require.NoError(t, err)
	isAdmin, _ := token.Get("is_admin")
	assert.Equal(t, true, isAdmin)

	_, err = svc.AdminLogin(ctx, auth.AdminLoginRequest{Username: "root", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidAdminLogin)
}
