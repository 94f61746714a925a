package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/attendance"
	"github.com/onlinehub/workforce-backend-go/internal/domain/auth"
	"github.com/onlinehub/workforce-backend-go/internal/domain/employee"
	"github.com/onlinehub/workforce-backend-go/internal/domain/user"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employees  employee.EmployeeRepository
	admins     user.AdminRepository
	attendance attendance.AttendanceService
	jwtService jwt.Service
	now        func() time.Time
}

func NewAuthService(
	employees employee.EmployeeRepository,
	admins user.AdminRepository,
	attendanceService attendance.AttendanceService,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		employees:  employees,
		admins:     admins,
		attendance: attendanceService,
		jwtService: jwtService,
		now:        time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) tokenResponse(token string, expiresAt int64, session *attendance.SessionResponse) auth.TokenResponse {
	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt - a.now().Unix(),
		Session:     session,
	}
}

// Login checks the employee's credentials, then starts a fresh attendance session that the token is bound to.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.employees.GetByMobileNumber(ctx, req.MobileNumber)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee by mobile number: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if emp.Locked {
		return auth.TokenResponse{}, auth.ErrAccountLocked
	}

	session, err := a.attendance.StartSession(ctx, emp.ID)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.jwtService.GenerateEmployeeToken(emp.ID, session.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("employee logged in", "employee_id", emp.ID, "session_id", session.ID)
	return a.tokenResponse(token, expiresAt, &session), nil
}

func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	admin, err := a.admins.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, user.ErrAdminNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidAdminLogin
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidAdminLogin
	}

	token, expiresAt, err := a.jwtService.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return a.tokenResponse(token, expiresAt, nil), nil
}

// Logout closes the session and revokes the token even when the session was already closed elsewhere.
func (a *AuthServiceImpl) Logout(ctx context.Context, rawToken string, req attendance.LogoutRequest) (attendance.SessionResponse, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return attendance.SessionResponse{}, auth.ErrInvalidToken
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return attendance.SessionResponse{}, auth.ErrInvalidToken
	}

	session, endErr := a.attendance.EndSession(ctx, employeeID, req)

	if err := a.jwtService.RevokeToken(ctx, rawToken, token.Expiration()); err != nil {
		return attendance.SessionResponse{}, fmt.Errorf("failed to revoke token: %w", err)
	}

	if endErr != nil {
		return attendance.SessionResponse{}, endErr
	}
	slog.Info("employee logged out", "employee_id", employeeID, "session_id", session.ID, "reason", session.LogoutReason)
	return session, nil
}

func (a *AuthServiceImpl) BootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := a.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := a.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin, err := a.admins.Create(ctx, user.Admin{Username: strings.TrimSpace(username), PasswordHash: hash})
	if err != nil {
		if errors.Is(err, user.ErrAdminUsernameTaken) {
			return nil
		}
		return err
	}

	slog.Info("bootstrapped admin account", "admin_id", admin.ID, "username", admin.Username)
	return nil
}
